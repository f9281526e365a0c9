package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// csvHeader is the interchange contract: six columns, this order. Identifier
// and store timestamps deliberately never round-trip.
var csvHeader = []string{"date", "time", "ticker", "gainsLosses", "riskAmount", "comments"}

const csvDateLayout = "2006-01-02"

// ExportCSV writes the journal in interchange format.
func ExportCSV(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Date.Format(csvDateLayout),
			t.Time,
			t.Ticker,
			strconv.FormatFloat(t.GainsLosses, 'f', -1, 64),
			strconv.FormatFloat(t.RiskAmount, 'f', -1, 64),
			t.Comments,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads an interchange file into trade requests.
//
// The header must match the contract exactly (order and count); a file with
// a different shape fails as a whole rather than importing garbage. Rows are
// validated as they are read: a bad date or amount reports its line number.
func ParseCSV(r io.Reader) ([]dto.TradeRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d columns, got %d", len(csvHeader), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != csvHeader[i] {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, csvHeader[i], h)
		}
	}

	var out []dto.TradeRequest
	line := 1 // header already read
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		req, err := recordToRequest(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, req)
	}
	return out, nil
}

// recordToRequest converts one CSV row. Amount columns must parse as
// decimals; blank comments are fine.
func recordToRequest(rec []string) (dto.TradeRequest, error) {
	gains, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return dto.TradeRequest{}, fmt.Errorf("invalid gainsLosses %q", rec[3])
	}
	risk, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
	if err != nil {
		return dto.TradeRequest{}, fmt.Errorf("invalid riskAmount %q", rec[4])
	}
	return dto.TradeRequest{
		Date:        strings.TrimSpace(rec[0]),
		Time:        strings.TrimSpace(rec[1]),
		Ticker:      strings.TrimSpace(rec[2]),
		GainsLosses: &gains,
		RiskAmount:  &risk,
		Comments:    rec[5],
	}, nil
}

// ImportCSV parses the reader and creates one trade per row, sequentially.
//
// There is no transactional grouping: a failure partway through leaves the
// rows created so far in place and reports how many made it. That matches
// the interchange contract for this tool; batch semantics belong to the
// server-side bulk import mode.
func (c *Client) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	requests, err := ParseCSV(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errImport, err)
	}

	for i, req := range requests {
		if _, err := c.CreateTrade(ctx, req); err != nil {
			return i, fmt.Errorf("%s: row %d: %w", errImport, i+1, err)
		}
	}
	return len(requests), nil
}
