package domain

import "time"

// HistoryPoint is one day of the computed historical spread series.
// MA7 and MA30 are zero until enough prior points exist to fill the window.
type HistoryPoint struct {
	Date      time.Time `json:"date"`
	ArgPrice  float64   `json:"arg_price"`
	USYield   float64   `json:"us_yield"`
	SpreadBps float64   `json:"spread_bps"`
	MA7       float64   `json:"ma7"`
	MA30      float64   `json:"ma30"`
	HasMA7    bool      `json:"has_ma7"`
	HasMA30   bool      `json:"has_ma30"`
}
