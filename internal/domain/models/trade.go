package models

import "time"

// Trade is one persisted journal entry: the outcome and risk of a single
// trading event.
//
// Fields:
//   - ID: opaque identifier assigned on creation, immutable afterwards.
//   - Date: calendar date of the trade (time-of-day zeroed, UTC).
//   - Time: wall-clock time of the trade, kept as text exactly as entered
//     (e.g., "14:30"); never parsed server-side.
//   - Ticker: instrument symbol in display format (e.g., "EUR/USD"). The set
//     is small in practice but intentionally not enforced by the schema.
//   - GainsLosses: signed profit/loss amount for the trade.
//   - RiskAmount: amount put at risk; expected non-negative, not enforced.
//   - Comments: optional free text.
//   - CreatedAt / UpdatedAt: store-managed timestamps.
type Trade struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Ticker      string    `json:"ticker"`
	GainsLosses float64   `json:"gainsLosses"`
	RiskAmount  float64   `json:"riskAmount"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
