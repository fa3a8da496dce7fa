package models

import "strings"

// AssetType classifies an instrument by how its prices are quoted.
type AssetType string

const (
	AssetForexMajor AssetType = "forex_major" // 5-digit quotes (EURUSD)
	AssetForexJPY   AssetType = "forex_jpy"   // 3-digit quotes (USDJPY)
	AssetGold       AssetType = "gold"
	AssetSilver     AssetType = "silver"
	AssetCrypto     AssetType = "crypto"
	AssetIndex      AssetType = "index"
)

// AssetProperties carries the pip size and display conventions for one
// instrument class.
type AssetProperties struct {
	Type          AssetType `json:"asset_type"`
	PipValue      float64   `json:"pip_value"`
	Unit          string    `json:"unit"` // "pips" or "pts"
	DisplayDigits int       `json:"display_digits"`
}

var indexMarkers = []string{
	"IDX", "US30", "DAX", "NAS", "GER", "SPX", "US100", "US500",
	"FRA40", "UK100", "EUSTX", "JPN225", "USATEC", "USAIDX", "DEUIDX",
	"USTEC", "HK50", "FR40", "GR30", "DE40", "WS30", "NDX", "VIX",
	"DXY", "STOXX", "CAC", "FTSE", "NI225", "ASX", "HSI",
}

var cryptoMarkers = []string{"BTC", "ETH", "CRYPTO", "SOL", "BNB", "XRP", "ADA", "DOT"}

// AssetPropertiesFromSymbol detects the asset class from symbol substrings
// and returns its pip conventions. Unrecognized symbols fall back to a
// 5-digit forex major (pip 0.0001).
func AssetPropertiesFromSymbol(symbol string) AssetProperties {
	s := strings.ToUpper(symbol)

	switch {
	case strings.Contains(s, "JPY"):
		return AssetProperties{Type: AssetForexJPY, PipValue: 0.01, Unit: "pips", DisplayDigits: 1}
	case strings.Contains(s, "XAU") || strings.Contains(s, "GOLD"):
		return AssetProperties{Type: AssetGold, PipValue: 0.1, Unit: "pips", DisplayDigits: 1}
	case strings.Contains(s, "XAG") || strings.Contains(s, "SILVER"):
		return AssetProperties{Type: AssetSilver, PipValue: 0.01, Unit: "pips", DisplayDigits: 2}
	case containsAny(s, cryptoMarkers):
		return AssetProperties{Type: AssetCrypto, PipValue: 1.0, Unit: "pts", DisplayDigits: 0}
	case containsAny(s, indexMarkers):
		return AssetProperties{Type: AssetIndex, PipValue: 1.0, Unit: "pts", DisplayDigits: 1}
	default:
		return AssetProperties{Type: AssetForexMajor, PipValue: 0.0001, Unit: "pips", DisplayDigits: 1}
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Normalize converts a raw price distance into pips/points.
func (p AssetProperties) Normalize(raw float64) float64 {
	if raw == 0 {
		return 0
	}
	return raw / p.PipValue
}

// Denormalize converts pips/points back into a raw price distance.
func (p AssetProperties) Denormalize(pips float64) float64 { return pips * p.PipValue }

// PointValue returns the platform point size. For forex the MT5 point is a
// tenth of a pip; indices and crypto quote directly in points.
func (p AssetProperties) PointValue() float64 {
	if p.Unit == "pips" {
		return p.PipValue / 10
	}
	return p.PipValue
}

// PipValueForSymbol is the per-symbol lookup used throughout the analysis
// layer. Explicit entries cover the instruments the reference data ships
// with; anything else goes through asset-class detection.
func PipValueForSymbol(symbol string) float64 {
	switch strings.ToUpper(symbol) {
	case "ADAUSD":
		return 0.0001
	case "BTCUSD":
		return 1.0
	case "CADJPY", "CHFJPY", "GBPJPY", "USDJPY":
		return 0.01
	case "ETHUSD", "LTCUSD":
		return 0.01
	case "LINKUSD", "UNIUSD":
		return 0.001
	case "USDCAD":
		return 0.0001
	case "XAGUSD":
		return 0.001
	case "XAUUSD":
		return 0.01
	case "XLMUSD":
		return 0.00001
	default:
		return AssetPropertiesFromSymbol(symbol).PipValue
	}
}

// NormalizeToPips converts a raw price distance to pips for a symbol.
func NormalizeToPips(raw float64, symbol string) float64 {
	return raw / PipValueForSymbol(symbol)
}
