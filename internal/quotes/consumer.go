// Package quotes consumes the relay's event stream on behalf of a journal
// client: it reassembles SSE frames into vendor messages, filters price
// updates, and normalizes them for display.
//
// Reassembly lives on this side of the contract because the relay forwards
// vendor chunks verbatim; nothing guarantees one complete JSON object per
// frame.
package quotes

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/logger"
)

const (
	frameDelimiter = "\n\n"
	dataPrefix     = "data: "
	priceType      = "PRICE"
)

// streamMessage mirrors the vendor's newline-delimited JSON price events.
// Only the fields the journal needs are decoded.
type streamMessage struct {
	Type       string `json:"type"`
	Instrument string `json:"instrument"`

	Bids []struct {
		Price string `json:"price"`
	} `json:"bids"`
}

// Decoder turns raw event-stream bytes into PriceQuotes.
//
// It buffers incoming payloads, splits on the double-newline frame delimiter,
// and retains any trailing incomplete fragment for concatenation with the
// next arrival. Frame payloads are then stitched back into vendor messages,
// since a vendor JSON object may span frames or share one with others.
//
// A Decoder belongs to a single stream and is not safe for concurrent use.
type Decoder struct {
	frames  string // raw bytes awaiting a complete frame
	pending string // vendor text reassembled from frame payloads
	dropped int
	log     zerolog.Logger
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{log: logger.With("quotes")}
}

// Push feeds raw bytes read from the event stream and returns every price
// quote completed by this arrival, in order.
//
// Non-price messages (heartbeats, stream metadata) are ignored. Malformed
// vendor messages are logged and dropped; they never terminate the stream.
func (d *Decoder) Push(chunk string) []models.PriceQuote {
	d.frames += chunk

	parts := strings.Split(d.frames, frameDelimiter)
	d.frames = parts[len(parts)-1] // trailing incomplete fragment stays buffered

	var quotes []models.PriceQuote
	for _, frame := range parts[:len(parts)-1] {
		// When a payload ends in a newline, the split consumes that newline
		// together with the frame delimiter and leaves the spare one on the
		// front of the next frame. Those leading newlines belong to the
		// vendor text, not the frame; restore them before stripping the
		// prefix so the previous message stays terminated.
		trimmed := strings.TrimLeft(frame, "\n")
		d.pending += frame[:len(frame)-len(trimmed)]
		d.pending += strings.TrimPrefix(trimmed, dataPrefix)
		quotes = append(quotes, d.drainPending()...)
	}
	return quotes
}

// drainPending parses completed vendor lines out of the reassembly buffer.
// The trailing fragment is parsed opportunistically: the final chunk of a
// message is not guaranteed to carry the vendor's newline terminator.
func (d *Decoder) drainPending() []models.PriceQuote {
	var quotes []models.PriceQuote

	lines := strings.Split(d.pending, "\n")
	complete, tail := lines[:len(lines)-1], lines[len(lines)-1]

	for _, line := range complete {
		if q, ok := d.decodeLine(line, true); ok {
			quotes = append(quotes, q)
		}
	}

	d.pending = tail
	if tail != "" {
		// Silent attempt; an incomplete JSON prefix is expected here.
		if q, ok := d.decodeLine(tail, false); ok {
			quotes = append(quotes, q)
			d.pending = ""
		}
	}
	return quotes
}

// decodeLine parses one vendor line into a quote. Returns false for blank
// lines, non-price messages, and malformed JSON. Parse failures are only
// logged for complete lines; an unfinished trailing fragment is normal.
func (d *Decoder) decodeLine(line string, logFailure bool) (models.PriceQuote, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.PriceQuote{}, false
	}

	var msg streamMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		if logFailure {
			d.dropped++
			d.log.Warn().Err(err).Str("line", truncate(line)).Msg("dropped malformed vendor message")
		}
		return models.PriceQuote{}, false
	}

	if !strings.EqualFold(msg.Type, priceType) {
		return models.PriceQuote{}, false
	}
	if msg.Instrument == "" || len(msg.Bids) == 0 {
		return models.PriceQuote{}, false
	}

	price, err := decimal.NewFromString(msg.Bids[0].Price)
	if err != nil {
		d.dropped++
		d.log.Warn().Err(err).Str("price", msg.Bids[0].Price).Msg("dropped unparsable bid price")
		return models.PriceQuote{}, false
	}

	return models.PriceQuote{
		Instrument: NormalizeInstrument(msg.Instrument),
		Bid:        price.StringFixed(4),
	}, true
}

// NormalizeInstrument converts the vendor's underscore code to the journal's
// display form: "EUR_USD" → "EUR/USD".
func NormalizeInstrument(code string) string {
	return strings.ReplaceAll(code, "_", "/")
}

func truncate(s string) string {
	const n = 200
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Board holds the latest quote per instrument. Quotes are last-write-wins;
// no history is retained. Instruments without a quote yet read "N/A".
type Board struct {
	prices map[string]string
}

// NewBoard seeds the board with the configured instruments (vendor format
// accepted) so that every ticker renders from the first frame.
func NewBoard(instruments []string) *Board {
	b := &Board{prices: make(map[string]string, len(instruments))}
	for _, ins := range instruments {
		b.prices[NormalizeInstrument(ins)] = "N/A"
	}
	return b
}

// Apply records a quote, superseding any previous price for the instrument.
func (b *Board) Apply(q models.PriceQuote) {
	b.prices[q.Instrument] = q.Bid
}

// Price returns the latest price for an instrument, or "N/A" when none has
// arrived.
func (b *Board) Price(instrument string) string {
	if p, ok := b.prices[instrument]; ok {
		return p
	}
	return "N/A"
}

// Snapshot returns a copy of the whole board.
func (b *Board) Snapshot() map[string]string {
	out := make(map[string]string, len(b.prices))
	for k, v := range b.prices {
		out[k] = v
	}
	return out
}
