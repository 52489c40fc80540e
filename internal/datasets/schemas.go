package datasets

import (
	"encoding/json"
	"strings"

	"github.com/trogers1052/prediction-service/internal/models"
)

// SchemaError lists required top-level fields absent from a payload.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

type field struct {
	name    string
	present bool
}

func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// RawPrediction is a prediction as proposed by generated data, before the
// engine has judged its signals.
type RawPrediction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Asset       string          `json:"asset"`
	Prediction  string          `json:"prediction"`
	Confidence  float64         `json:"confidence"`
	Timeframe   string          `json:"timeframe,omitempty"`
	TargetMove  string          `json:"targetMove,omitempty"`
	EntryPrice  *string         `json:"entryPrice,omitempty"`
	TargetPrice *string         `json:"targetPrice,omitempty"`
	Reasoning   string          `json:"reasoning,omitempty"`
	Signals     []models.Signal `json:"signals"`
	Timestamp   string          `json:"timestamp,omitempty"`
	Status      string          `json:"status,omitempty"`
}

// Accuracy is a self-reported hit rate block.
type Accuracy struct {
	Overall          float64 `json:"overall"`
	TotalPredictions float64 `json:"totalPredictions,omitempty"`
	Total            float64 `json:"total,omitempty"`
	Correct          float64 `json:"correct"`
}

// MarketSignal is a display signal scored 0-100 with a bias label.
type MarketSignal struct {
	Name     string  `json:"name"`
	Key      string  `json:"key,omitempty"`
	Strength float64 `json:"strength"`
	Status   string  `json:"status"`
	Detail   string  `json:"detail,omitempty"`
}

// Alert is a headline surfaced to the alerts feed.
type Alert struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Type    string `json:"type"`
	Time    string `json:"time"`
	Module  string `json:"module"`
	Read    bool   `json:"read"`
}

// Quote is a spot price summary.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	MarketCap string  `json:"marketCap"`
	Volume24h string  `json:"volume24h"`
}

// ChartPoint is one intraday sample.
type ChartPoint struct {
	Time string  `json:"time"`
	BTC  float64 `json:"btc"`
	ETH  float64 `json:"eth"`
}

// PricesPayload is the prices dataset.
type PricesPayload struct {
	BTC         *Quote       `json:"btc"`
	ETH         *Quote       `json:"eth"`
	ChartData   []ChartPoint `json:"chartData"`
	LastUpdated string       `json:"lastUpdated"`
}

func (p *PricesPayload) check() error {
	return required(field{"btc", p.BTC != nil}, field{"eth", p.ETH != nil})
}

// PredictionsPayload is the crypto predictions dataset.
type PredictionsPayload struct {
	Predictions []RawPrediction `json:"predictions"`
	Accuracy    *Accuracy       `json:"accuracy,omitempty"`
	LastUpdated string          `json:"lastUpdated"`
}

func (p *PredictionsPayload) check() error {
	return required(field{"predictions", p.Predictions != nil})
}

// SignalsPayload is the crypto market signals dataset.
type SignalsPayload struct {
	Signals          []MarketSignal `json:"signals"`
	OverallSentiment string         `json:"overallSentiment"`
	LastUpdated      string         `json:"lastUpdated"`
}

func (p *SignalsPayload) check() error {
	return required(field{"signals", p.Signals != nil})
}

// WhaleTransaction is one large wallet movement.
type WhaleTransaction struct {
	Wallet string `json:"wallet"`
	Action string `json:"action"`
	Amount string `json:"amount"`
	Value  string `json:"value"`
	Time   string `json:"time"`
	Source string `json:"source,omitempty"`
}

// WhalesPayload is the whale activity dataset.
type WhalesPayload struct {
	WhaleActivity []WhaleTransaction `json:"whaleActivity"`
	Summary       string             `json:"summary"`
	NetFlow       string             `json:"netFlow"`
	LastUpdated   string             `json:"lastUpdated"`
}

func (p *WhalesPayload) check() error {
	return required(field{"whaleActivity", p.WhaleActivity != nil})
}

// ModulePerformance is a per-module hit rate.
type ModulePerformance struct {
	Accuracy    float64 `json:"accuracy"`
	Predictions float64 `json:"predictions"`
	Correct     float64 `json:"correct"`
}

// DashboardPayload is the cross-module dashboard summary.
type DashboardPayload struct {
	ActivePredictions []RawPrediction              `json:"activePredictions"`
	PerformanceData   map[string]ModulePerformance `json:"performanceData"`
	RecentAlerts      []Alert                      `json:"recentAlerts"`
	AccuracyOverTime  []map[string]json.RawMessage `json:"accuracyOverTime"`
	SignalsToday      float64                      `json:"signalsToday"`
	ConvergedSignals  float64                      `json:"convergedSignals"`
	LastUpdated       string                       `json:"lastUpdated"`
}

func (p *DashboardPayload) check() error {
	return required(
		field{"activePredictions", p.ActivePredictions != nil},
		field{"performanceData", p.PerformanceData != nil},
	)
}

// AlertsPayload is the alerts feed.
type AlertsPayload struct {
	Alerts      []Alert `json:"alerts"`
	LastUpdated string  `json:"lastUpdated"`
}

func (p *AlertsPayload) check() error {
	return required(field{"alerts", p.Alerts != nil})
}

// BacktestResult scores one historical event.
type BacktestResult struct {
	Event     string  `json:"event"`
	Period    string  `json:"period"`
	Predicted bool    `json:"predicted"`
	Accuracy  float64 `json:"accuracy"`
	Signals   string  `json:"signals"`
	Profit    string  `json:"profit"`
}

// CategoryAccuracy compares a target hit rate with the achieved one.
type CategoryAccuracy struct {
	Category string  `json:"category"`
	Target   float64 `json:"target"`
	Actual   float64 `json:"actual"`
}

// PaperTrading is a simulated portfolio.
type PaperTrading struct {
	StartingCapital float64           `json:"startingCapital"`
	CurrentValue    float64           `json:"currentValue"`
	PnL             float64           `json:"pnl"`
	PnLPercent      float64           `json:"pnlPercent"`
	Trades          float64           `json:"trades"`
	WinRate         float64           `json:"winRate"`
	BestTrade       json.RawMessage   `json:"bestTrade,omitempty"`
	WorstTrade      json.RawMessage   `json:"worstTrade,omitempty"`
	DailyPnL        []json.RawMessage `json:"dailyPnl,omitempty"`
}

// BacktestsPayload is the backtesting dataset.
type BacktestsPayload struct {
	BacktestResults  []BacktestResult   `json:"backtestResults"`
	BacktestAccuracy []CategoryAccuracy `json:"backtestAccuracy"`
	PaperTrading     *PaperTrading      `json:"paperTrading"`
	Stats            json.RawMessage    `json:"stats,omitempty"`
	LastUpdated      string             `json:"lastUpdated"`
}

func (p *BacktestsPayload) check() error {
	return required(
		field{"backtestResults", p.BacktestResults != nil},
		field{"paperTrading", p.PaperTrading != nil},
	)
}

// DealerProfile is a behavioral profile of a table dealer.
type DealerProfile struct {
	Name       string   `json:"name"`
	Table      string   `json:"table"`
	BustRate   float64  `json:"bustRate"`
	Pattern    string   `json:"pattern"`
	Confidence float64  `json:"confidence"`
	Tells      []string `json:"tells"`
}

// Hand is one observed hand with the call made on it.
type Hand struct {
	Hand       float64 `json:"hand"`
	Dealer     string  `json:"dealer"`
	Prediction string  `json:"prediction"`
	Actual     string  `json:"actual"`
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence"`
}

// CasinoPayload is the casino behavior dataset.
type CasinoPayload struct {
	DealerProfiles []DealerProfile `json:"dealerProfiles"`
	RecentHands    []Hand          `json:"recentHands"`
	Stats          json.RawMessage `json:"stats,omitempty"`
	Insights       []string        `json:"insights"`
	LastUpdated    string          `json:"lastUpdated"`
}

func (p *CasinoPayload) check() error {
	return required(field{"dealerProfiles", p.DealerProfiles != nil})
}

// OfficialStance tracks the tone of a government official.
type OfficialStance struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Change     string  `json:"change"`
	Confidence float64 `json:"confidence"`
	Detail     string  `json:"detail,omitempty"`
}

// UpcomingEvent is a scheduled political or economic event.
type UpcomingEvent struct {
	Event      string `json:"event"`
	Date       string `json:"date"`
	Impact     string `json:"impact"`
	Prediction string `json:"prediction"`
}

// PoliticalPayload is the political tracking dataset.
type PoliticalPayload struct {
	BettingMarketData []map[string]json.RawMessage `json:"bettingMarketData"`
	CabinetTracking   []OfficialStance             `json:"cabinetTracking"`
	UpcomingEvents    []UpcomingEvent              `json:"upcomingEvents"`
	Predictions       []RawPrediction              `json:"predictions"`
	Accuracy          *Accuracy                    `json:"accuracy,omitempty"`
	LastUpdated       string                       `json:"lastUpdated"`
}

func (p *PoliticalPayload) check() error {
	return required(field{"predictions", p.Predictions != nil})
}

// TrackedStartup is a startup scored on the five startup signals (0-100).
type TrackedStartup struct {
	Name       string             `json:"name"`
	Sector     string             `json:"sector"`
	Stage      string             `json:"stage"`
	Prediction string             `json:"prediction"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning,omitempty"`
	Signals    map[string]float64 `json:"signals"`
	FlagType   string             `json:"flagType,omitempty"`
	FlagDetail string             `json:"flagDetail,omitempty"`
}

// StartupsPayload is the startup tracking dataset.
type StartupsPayload struct {
	TrackedStartups []TrackedStartup `json:"trackedStartups"`
	Predictions     []RawPrediction  `json:"predictions"`
	Accuracy        *Accuracy        `json:"accuracy,omitempty"`
	Stats           json.RawMessage  `json:"stats,omitempty"`
	LastUpdated     string           `json:"lastUpdated"`
}

func (p *StartupsPayload) check() error {
	return required(field{"trackedStartups", p.TrackedStartups != nil})
}

// OptionsFlow is call/put activity for one ticker.
type OptionsFlow struct {
	Ticker string  `json:"ticker"`
	Calls  float64 `json:"calls"`
	Puts   float64 `json:"puts"`
	Ratio  float64 `json:"ratio"`
	Note   string  `json:"note,omitempty"`
}

// InsiderTrade is a reported insider transaction.
type InsiderTrade struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Action  string `json:"action"`
	Shares  string `json:"shares"`
	Value   string `json:"value"`
	Date    string `json:"date"`
}

// StocksPayload is the stock flow dataset.
type StocksPayload struct {
	OptionsFlow    []OptionsFlow   `json:"optionsFlow"`
	InsiderTrading []InsiderTrade  `json:"insiderTrading"`
	Predictions    []RawPrediction `json:"predictions"`
	Signals        []MarketSignal  `json:"signals"`
	Accuracy       *Accuracy       `json:"accuracy,omitempty"`
	LastUpdated    string          `json:"lastUpdated"`
}

func (p *StocksPayload) check() error {
	return required(
		field{"optionsFlow", p.OptionsFlow != nil},
		field{"predictions", p.Predictions != nil},
	)
}
