package models

// Request payloads for the analysis API. Validation tags are enforced
// at the HTTP boundary; defaults fill optional knobs.

type LoadPairRequest struct {
	Symbol string `json:"symbol" query:"symbol" validate:"required,alphanum,min=3,max=12"`
}

type PairStatsRequest struct {
	Symbol string `json:"symbol" query:"symbol" param:"symbol" validate:"required,alphanum,min=3,max=12"`
}

type EventImpactRequest struct {
	EventType string `json:"event_type" query:"event_type" validate:"required,min=2"`
}

type SimulateHourRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,min=3,max=12"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour   int    `json:"hour" validate:"gte=0,lte=23"`
}

type SimulateQuarterRequest struct {
	Symbol  string `json:"symbol" validate:"required,alphanum,min=3,max=12"`
	Hour    int    `json:"hour" validate:"gte=0,lte=23"`
	Quarter int    `json:"quarter" validate:"gte=0,lte=3"`
}

type StraddleParametersRequest struct {
	Symbol       string  `json:"symbol" validate:"required,alphanum,min=3,max=12"`
	Hour         int     `json:"hour" validate:"gte=0,lte=23"`
	Quarter      int     `json:"quarter" validate:"gte=0,lte=3"`
	SpreadMargin float64 `json:"spread_margin" validate:"gte=0,lte=50"`
}

type RetroImpactRequest struct {
	Pair      string `json:"pair" validate:"required,alphanum,min=3,max=12"`
	EventType string `json:"event_type" validate:"required,min=2"`
}

type RetroMomentRequest struct {
	Pair      string `json:"pair" validate:"required,alphanum,min=3,max=12"`
	EventTime string `json:"event_time" validate:"required"` // RFC3339 or "2006-01-02 15:04:05"
}
