package model

import (
	"errors"
	"math"
	"time"
)

// TimestampLayout is the civil local time format stored with every price.
const TimestampLayout = "2006-01-02 15:04:05"

// PriceObservation is a single observed contract price.
type PriceObservation struct {
	Time  time.Time
	Price float64
}

// Timestamp formats the observation time for storage.
func (p PriceObservation) Timestamp() string {
	return p.Time.Format(TimestampLayout)
}

// ErrInvalidPrice rejects prices that must never reach storage or the chart.
var ErrInvalidPrice = errors.New("invalid price")

// ValidPrice reports whether v is usable as a price: finite and strictly positive.
func ValidPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
