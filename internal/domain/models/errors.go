package models

import "errors"

// Sentinel errors for the analysis core. Callers match with errors.Is.
var (
	ErrPairNotLoaded    = errors.New("pair not loaded")
	ErrNoData           = errors.New("no data in requested window")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrDuplicateCandle  = errors.New("duplicate candle timestamp")
)
