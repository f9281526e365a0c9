package models

// PriceQuote is an ephemeral live price for one instrument. Quotes are never
// persisted: each one supersedes the previous quote for the same instrument
// (last-write-wins) and exists only in the forwarding path and client memory.
//
// Fields:
//   - Instrument: symbol in display format ("EUR/USD"), already normalized
//     from the vendor's underscore form.
//   - Bid: best bid price fixed to 4 decimal places, as text.
type PriceQuote struct {
	Instrument string `json:"instrument"`
	Bid        string `json:"bid"`
}
