package datasets

const jsonOnly = "Return ONLY a valid JSON object with exactly this structure. No markdown, no commentary.\n"

const signalHonesty = "\nBe honest about signal strengths: when the evidence for a signal is weak, set active to false and keep strength below 0.5. Every value must come from data you found via web search today."

const pricesPrompt = `Search the web for the current prices of Bitcoin (BTC) and Ethereum (ETH) right now.

` + jsonOnly + `{
  "btc": {"price": <number USD>, "change24h": <number percent>, "marketCap": "<e.g. $1.35T>", "volume24h": "<e.g. $28.5B>"},
  "eth": {"price": <number USD>, "change24h": <number percent>, "marketCap": "<e.g. $380B>", "volume24h": "<e.g. $12.1B>"},
  "chartData": [
    {"time": "00:00", "btc": <number>, "eth": <number>},
    {"time": "04:00", "btc": <number>, "eth": <number>},
    {"time": "08:00", "btc": <number>, "eth": <number>},
    {"time": "12:00", "btc": <number>, "eth": <number>},
    {"time": "16:00", "btc": <number>, "eth": <number>},
    {"time": "20:00", "btc": <number>, "eth": <number>},
    {"time": "Now", "btc": <number>, "eth": <number>}
  ],
  "lastUpdated": "<ISO timestamp>"
}

chartData should trace a plausible 24h path consistent with the 24h change; the "Now" entry must equal the current price.`

const predictionsPrompt = `You are a crypto prediction engine. Research today's Bitcoin and Ethereum news, price action, whale wallet movements, social sentiment on X and Reddit, exchange inflows and outflows, volume anomalies and cross-asset correlation breaks.

` + jsonOnly + `{
  "predictions": [
    {
      "id": "pred_btc_001",
      "type": "CRYPTO",
      "asset": "BTC",
      "prediction": "<PUMP or DUMP>",
      "confidence": <number 60-95>,
      "timeframe": "<e.g. 24-48 hours>",
      "targetMove": "<e.g. +8% to +14%>",
      "entryPrice": "<current price with $>",
      "targetPrice": "<target range with $>",
      "reasoning": "<1-2 sentences grounded in the data found>",
      "signals": [
        {"name": "whale_accumulation", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "social_surge", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "exchange_outflow", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "volume_spike", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "correlation_break", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"}
      ],
      "timestamp": "<ISO timestamp>",
      "status": "active"
    }
  ],
  "accuracy": {"overall": <number>, "totalPredictions": <number>, "correct": <number>},
  "lastUpdated": "<ISO timestamp>"
}

Include one prediction for BTC and one for ETH, each with all five signals.` + signalHonesty

const signalsPrompt = `Search the web for today's crypto market indicators for Bitcoin and Ethereum: whale accumulation, social sentiment, exchange flows (inflows bearish, outflows bullish), volume against its average, and whether altcoins are diverging from BTC.

` + jsonOnly + `{
  "signals": [
    {"name": "Whale Accumulation", "key": "whale_accumulation", "strength": <0-100>, "status": "<bullish/bearish/neutral>", "detail": "<data point>"},
    {"name": "Social Sentiment", "key": "social_surge", "strength": <0-100>, "status": "<bullish/bearish/neutral>", "detail": "<data point>"},
    {"name": "Exchange Flow", "key": "exchange_outflow", "strength": <0-100>, "status": "<bullish/bearish/neutral>", "detail": "<data point>"},
    {"name": "Volume Analysis", "key": "volume_spike", "strength": <0-100>, "status": "<bullish/bearish/neutral>", "detail": "<data point>"},
    {"name": "Correlation", "key": "correlation_break", "strength": <0-100>, "status": "<bullish/bearish/neutral>", "detail": "<data point>"}
  ],
  "overallSentiment": "<BULLISH/BEARISH/NEUTRAL>",
  "lastUpdated": "<ISO timestamp>"
}`

const whalesPrompt = `Search the web for today's Bitcoin and Ethereum whale activity: large wallet transfers, big exchange deposits and withdrawals, notable accumulation or distribution.

` + jsonOnly + `{
  "whaleActivity": [
    {"wallet": "<abbreviated address like 0x1a2b...3c4d>", "action": "<BUY or SELL>", "amount": "<e.g. 850 BTC>", "value": "<e.g. $57.8M>", "time": "<e.g. 2h ago>", "source": "<where it was reported>"}
  ],
  "summary": "<1-2 sentence read of whale sentiment>",
  "netFlow": "<NET BUY or NET SELL>",
  "lastUpdated": "<ISO timestamp>"
}

Include 4-6 recent transactions.`

const dashboardPrompt = `You are a multi-module prediction system. Research today's data across crypto (BTC/ETH), US stocks and top movers, politics and Fed signals, and startup funding news.

` + jsonOnly + `{
  "activePredictions": [
    {
      "id": "pred_001",
      "type": "<CRYPTO/STOCK/POLITICAL/STARTUP>",
      "asset": "<name>",
      "prediction": "<PUMP/DUMP/BULLISH/BEARISH/EARNINGS_BEAT/RATE_CUT/SUCCESS/FAILURE>",
      "confidence": <60-95>,
      "timeframe": "<e.g. 24-48 hours>",
      "targetMove": "<e.g. +8% to +12%>",
      "entryPrice": "<price or null>",
      "targetPrice": "<target or null>",
      "signals": [{"name": "<signal_name>", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"}],
      "timestamp": "<ISO timestamp>",
      "status": "active"
    }
  ],
  "performanceData": {
    "overall": {"accuracy": <number>, "predictions": <number>, "correct": <number>},
    "crypto": {"accuracy": <number>, "predictions": <number>, "correct": <number>},
    "stocks": {"accuracy": <number>, "predictions": <number>, "correct": <number>},
    "startups": {"accuracy": <number>, "predictions": <number>, "correct": <number>},
    "political": {"accuracy": <number>, "predictions": <number>, "correct": <number>},
    "casino": {"accuracy": <number>, "predictions": <number>, "correct": <number>}
  },
  "recentAlerts": [{"id": "a001", "message": "<alert>", "type": "<high/medium/info>", "time": "<e.g. 2 hours ago>", "module": "<CRYPTO/STOCK/POLITICAL/STARTUP>"}],
  "accuracyOverTime": [{"date": "Week 1", "overall": <number>, "crypto": <number>, "stocks": <number>, "political": <number>}],
  "highestConfidence": {"value": <number>, "asset": "<name>", "type": "<module>"},
  "signalsToday": <number>,
  "convergedSignals": <number>,
  "lastUpdated": "<ISO timestamp>"
}

Include 5 active predictions (at least one each of crypto, stock, political and startup) using that module's five signal names, 5 recent alerts and 8 weeks of accuracyOverTime.` + signalHonesty

const alertsPrompt = `You are a prediction alert system. Search the web for today's breaking news across crypto, stocks, politics and startups and turn it into alerts.

` + jsonOnly + `{
  "alerts": [
    {"id": "a001", "message": "<headline>", "detail": "<1-2 sentences with specifics>", "type": "<high/medium/warning/info/system>", "time": "<e.g. 1 hour ago>", "module": "<CRYPTO/STOCK/POLITICAL/STARTUP/CASINO/SYSTEM>", "read": <bool>}
  ],
  "lastUpdated": "<ISO timestamp>"
}

Generate 8 alerts, newest first. The first 2 are unread, the rest read. Mix the types, and make the last one a SYSTEM accuracy update.`

const backtestsPrompt = `You are a prediction backtesting engine. Research major crypto, stock-earnings, political and market-crash events from the past 2-3 years and judge whether signal convergence could have called them. Also simulate paper trading from current market conditions.

` + jsonOnly + `{
  "backtestResults": [
    {"event": "<historical event>", "period": "<e.g. Jan-Mar 2024>", "predicted": <bool>, "accuracy": <55-90>, "signals": "<e.g. 5/5 converged>", "profit": "<e.g. +192% or Avoided or -15%>"}
  ],
  "backtestAccuracy": [
    {"category": "Crypto Moves", "target": 70, "actual": <number>},
    {"category": "Stock Earnings", "target": 65, "actual": <number>},
    {"category": "Startups", "target": 75, "actual": <number>},
    {"category": "Political", "target": 80, "actual": <number>},
    {"category": "Casino", "target": 65, "actual": <number>}
  ],
  "paperTrading": {
    "startingCapital": 100000,
    "currentValue": <number>,
    "pnl": <number>,
    "pnlPercent": <number>,
    "trades": <number>,
    "winRate": <number>,
    "bestTrade": {"asset": "<symbol>", "pnl": <number>, "percent": <number>},
    "worstTrade": {"asset": "<symbol>", "pnl": <negative number>, "percent": <negative number>},
    "dailyPnl": [{"date": "<e.g. Feb 1>", "value": <number>}]
  },
  "stats": {"totalEvents": <number>, "predicted": <number>, "avgAccuracy": <number>, "meetsTarget": "<e.g. 4/5>"},
  "lastUpdated": "<ISO timestamp>"
}

Include 7 historical events and 9 dailyPnl points starting at 100000.`

const casinoPrompt = `You are a casino behavioral analysis engine. Research blackjack dealer behavior statistics, game theory and optimal play, behavioral psychology of dealer tells, and recent gambling industry data.

` + jsonOnly + `{
  "dealerProfiles": [
    {"name": "<e.g. Dealer #A-117>", "table": "<e.g. Blackjack T3>", "bustRate": <25-45>, "pattern": "<behavioral pattern>", "confidence": <50-85>, "tells": ["<tell>", "<tell>", "<tell>"]}
  ],
  "recentHands": [
    {"hand": <number>, "dealer": "<dealer id>", "prediction": "<BUST or WIN>", "actual": "<BUST or WIN or 21>", "correct": <bool>, "confidence": <number>}
  ],
  "stats": {"accuracy": <number>, "dealersProfiled": <number>, "winRate": <number>, "bestDealer": "<dealer id>", "bestDealerBustRate": <number>},
  "insights": ["<one research-backed sentence>"],
  "lastUpdated": "<ISO timestamp>"
}

Include 4 dealer profiles, 8 recent hands and 3 insights.`

const politicalPrompt = `You are a political prediction engine. Research today's US political and economic news: Federal Reserve speeches and rate expectations, betting market odds (Polymarket, PredictIt, Kalshi), upcoming events, tone shifts from officials, and legislative activity.

` + jsonOnly + `{
  "bettingMarketData": [{"date": "<e.g. Feb 1>", "rateCut": <0-100>, "rateHold": <0-100>, "rateHike": <0-100>}],
  "cabinetTracking": [{"name": "<official title>", "status": "<dovish/hawkish/neutral>", "change": "<e.g. Shifted dovish>", "confidence": <0-100>, "detail": "<data found>"}],
  "upcomingEvents": [{"event": "<event>", "date": "<date>", "impact": "<High/Medium/Low>", "prediction": "<expected outcome>"}],
  "predictions": [
    {
      "id": "pred_pol_001",
      "type": "POLITICAL",
      "asset": "<e.g. Fed Rate Decision>",
      "prediction": "<RATE_CUT or RATE_HIKE or RATE_HOLD>",
      "confidence": <60-95>,
      "timeframe": "<e.g. 30 days>",
      "targetMove": "<e.g. -25 bps>",
      "reasoning": "<data found>",
      "signals": [
        {"name": "cabinet_signals", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "legislative_calendar", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "betting_markets", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "polling_trends", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "media_narrative", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"}
      ],
      "timestamp": "<ISO timestamp>",
      "status": "active"
    }
  ],
  "accuracy": {"overall": <number>, "correct": <number>, "total": <number>},
  "lastUpdated": "<ISO timestamp>"
}

Include 6 betting market points, 4 officials, 4 upcoming events and 1-2 predictions.` + signalHonesty

const startupsPrompt = `You are a startup prediction engine. Research today's venture news: recent Seed to Series C rounds, layoffs, pivots and shutdowns, hot sectors, and founder signals.

` + jsonOnly + `{
  "trackedStartups": [
    {
      "name": "<startup>",
      "sector": "<e.g. AI/ML, FinTech>",
      "stage": "<e.g. Series A>",
      "prediction": "<SUCCESS or FAILURE>",
      "confidence": <55-90>,
      "reasoning": "<1-2 sentences>",
      "signals": {"founder": <0-100>, "retention": <0-100>, "traction": <0-100>, "funding": <0-100>, "timing": <0-100>},
      "flagType": "<green or red>",
      "flagDetail": "<short explanation>"
    }
  ],
  "predictions": [
    {
      "id": "pred_startup_001",
      "type": "STARTUP",
      "asset": "<startup>",
      "prediction": "<SUCCESS or FAILURE>",
      "confidence": <55-90>,
      "timeframe": "12-24 months",
      "signals": [
        {"name": "authentic_founder", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "strong_retention", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "customer_traction", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "funding_velocity", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "market_timing", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"}
      ],
      "timestamp": "<ISO timestamp>",
      "status": "active"
    }
  ],
  "accuracy": {"overall": <number>, "correct": <number>, "total": <number>},
  "stats": {"tracking": <number>, "successRate": <percent>, "redFlags": <number>},
  "lastUpdated": "<ISO timestamp>"
}

Include 4 tracked startups and 1-2 predictions, using real company names.` + signalHonesty

const stocksPrompt = `You are a stock prediction engine. Research today's US market: unusual options activity for NVDA, AAPL, TSLA, META, AMZN, MSFT and GOOGL, recent insider filings, analyst upgrades, volume anomalies and news sentiment.

` + jsonOnly + `{
  "optionsFlow": [{"ticker": "<symbol>", "calls": <number>, "puts": <number>, "ratio": <call/put ratio>, "note": "<context>"}],
  "insiderTrading": [{"name": "<executive>", "company": "<ticker>", "action": "<BUY or SELL>", "shares": "<formatted number>", "value": "<e.g. $26M>", "date": "<e.g. Feb 15>"}],
  "predictions": [
    {
      "id": "pred_stock_001",
      "type": "STOCK",
      "asset": "<ticker>",
      "prediction": "<EARNINGS_BEAT or EARNINGS_MISS or BULLISH or BEARISH>",
      "confidence": <60-95>,
      "timeframe": "<e.g. 3 days>",
      "targetMove": "<e.g. +8% to +15%>",
      "entryPrice": "<current price with $>",
      "targetPrice": "<target range with $>",
      "reasoning": "<1-2 sentences>",
      "signals": [
        {"name": "options_surge", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "insider_buying", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "analyst_upgrade", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "sentiment_shift", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"},
        {"name": "volume_anomaly", "active": <bool>, "strength": <0.0-1.0>, "detail": "<data found>"}
      ],
      "timestamp": "<ISO timestamp>",
      "status": "active"
    }
  ],
  "signals": [
    {"name": "Options Activity", "strength": <0-100>, "status": "<bullish/bearish/neutral>"},
    {"name": "Insider Buying", "strength": <0-100>, "status": "<bullish/bearish/neutral>"},
    {"name": "Analyst Ratings", "strength": <0-100>, "status": "<bullish/bearish/neutral>"},
    {"name": "News Sentiment", "strength": <0-100>, "status": "<bullish/bearish/neutral>"},
    {"name": "Volume Anomalies", "strength": <0-100>, "status": "<bullish/bearish/neutral>"}
  ],
  "accuracy": {"overall": <number>, "correct": <number>, "total": <number>},
  "lastUpdated": "<ISO timestamp>"
}

Include 5 options flow entries, 4 insider trades and 2 predictions.` + signalHonesty
