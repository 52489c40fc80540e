package models

import "strings"

// PredictionType identifies the module a prediction belongs to.
type PredictionType string

const (
	PredictionTypeCrypto    PredictionType = "CRYPTO"
	PredictionTypeStock     PredictionType = "STOCK"
	PredictionTypeStartup   PredictionType = "STARTUP"
	PredictionTypePolitical PredictionType = "POLITICAL"
	PredictionTypeCasino    PredictionType = "CASINO"
)

// PredictionTypes lists every module in display order.
var PredictionTypes = []PredictionType{
	PredictionTypeCrypto,
	PredictionTypeStock,
	PredictionTypeStartup,
	PredictionTypePolitical,
	PredictionTypeCasino,
}

// ParsePredictionType normalizes s and reports whether it names a known module.
func ParsePredictionType(s string) (PredictionType, bool) {
	t := PredictionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PredictionTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Signal is a single named indicator feeding the convergence engine.
type Signal struct {
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	Strength float64 `json:"strength"`
	Detail   string  `json:"detail,omitempty"`
}

// SignalTypes holds the five signal names each module evaluates.
var SignalTypes = map[PredictionType][]string{
	PredictionTypeCrypto: {
		"whale_accumulation",
		"social_surge",
		"exchange_outflow",
		"volume_spike",
		"correlation_break",
	},
	PredictionTypeStock: {
		"options_surge",
		"insider_buying",
		"analyst_upgrade",
		"sentiment_shift",
		"volume_anomaly",
	},
	PredictionTypeStartup: {
		"authentic_founder",
		"strong_retention",
		"customer_traction",
		"funding_velocity",
		"market_timing",
	},
	PredictionTypePolitical: {
		"cabinet_signals",
		"legislative_calendar",
		"betting_markets",
		"polling_trends",
		"media_narrative",
	},
	PredictionTypeCasino: {
		"dealer_expression",
		"hand_speed",
		"body_language",
		"historical_pattern",
		"table_atmosphere",
	},
}
