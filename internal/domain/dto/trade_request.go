package dto

import (
	"fmt"
	"time"

	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// Date layouts accepted on the wire. Browser clients post either a plain
// calendar date or a full ISO timestamp (the original form serialized a JS
// Date); both collapse to a date-only value.
const (
	dateLayout = "2006-01-02"
)

// TradeRequest is the JSON body accepted by POST /api/trades and
// PUT /api/trades/:id. Validation is schema-level only: required fields and
// types. Business rules (e.g., risk amount sign) are intentionally not
// enforced server-side.
//
// GainsLosses and RiskAmount are pointers so that an explicit zero passes the
// required check while a missing field fails it.
type TradeRequest struct {
	Date        string   `json:"date" binding:"required" example:"2025-03-14"`
	Time        string   `json:"time" binding:"required" example:"14:30"`
	Ticker      string   `json:"ticker" binding:"required" example:"EUR/USD"`
	GainsLosses *float64 `json:"gainsLosses" binding:"required" example:"150"`
	RiskAmount  *float64 `json:"riskAmount" binding:"required" example:"50"`
	Comments    string   `json:"comments" example:"breakout entry"`
}

// ToModel converts the request into a Trade, parsing the date field.
// The returned Trade has no ID or store timestamps; those belong to the store.
func (r TradeRequest) ToModel() (models.Trade, error) {
	d, err := parseDate(r.Date)
	if err != nil {
		return models.Trade{}, err
	}
	return models.Trade{
		Date:        d,
		Time:        r.Time,
		Ticker:      r.Ticker,
		GainsLosses: *r.GainsLosses,
		RiskAmount:  *r.RiskAmount,
		Comments:    r.Comments,
	}, nil
}

// parseDate accepts "YYYY-MM-DD" or a full RFC 3339 timestamp and normalizes
// to a UTC date with the time-of-day zeroed.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		ts = ts.UTC()
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// MessageResponse is a minimal confirmation body, e.g. after a delete.
type MessageResponse struct {
	Message string `json:"message" example:"Trade deleted"`
}
