package models

import (
	"fmt"
	"time"
)

// Candle is one OHLCV bar for a single instrument. Immutable once built;
// construct through NewCandle so the OHLC invariants always hold.
type Candle struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"` // UTC
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// NewCandle validates and builds a candle. High must bound the bar from
// above, low from below, and all values must be non-negative.
func NewCandle(symbol string, ts time.Time, open, high, low, close, volume float64) (Candle, error) {
	if open < 0 || high < 0 || low < 0 || close < 0 || volume < 0 {
		return Candle{}, fmt.Errorf("candle %s @ %s: negative value", symbol, ts.Format(time.RFC3339))
	}
	if high < low {
		return Candle{}, fmt.Errorf("candle %s @ %s: high %.5f below low %.5f", symbol, ts.Format(time.RFC3339), high, low)
	}
	if high < open || high < close {
		return Candle{}, fmt.Errorf("candle %s @ %s: high %.5f below open/close", symbol, ts.Format(time.RFC3339), high)
	}
	if low > open || low > close {
		return Candle{}, fmt.Errorf("candle %s @ %s: low %.5f above open/close", symbol, ts.Format(time.RFC3339), low)
	}
	return Candle{
		Symbol:    symbol,
		Timestamp: ts.UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}, nil
}

// Range returns the full high-low span of the bar.
func (c Candle) Range() float64 { return c.High - c.Low }

// BodyPercent returns |close-open| as a percentage of the bar range,
// 0 for a zero-range bar.
func (c Candle) BodyPercent() float64 {
	r := c.High - c.Low
	if r == 0 {
		return 0
	}
	body := c.Close - c.Open
	if body < 0 {
		body = -body
	}
	return body / r * 100
}

// UpperWick returns the distance from the body top to the high.
func (c Candle) UpperWick() float64 {
	top := c.Open
	if c.Close > top {
		top = c.Close
	}
	return c.High - top
}

// LowerWick returns the distance from the low to the body bottom.
func (c Candle) LowerWick() float64 {
	bot := c.Open
	if c.Close < bot {
		bot = c.Close
	}
	return bot - c.Low
}

// HourUTC returns the bar's hour of day in UTC.
func (c Candle) HourUTC() int { return c.Timestamp.UTC().Hour() }
