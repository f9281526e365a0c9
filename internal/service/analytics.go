package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// Period selects the window for profit/loss aggregation. Bucket boundaries
// are computed from the caller's clock at evaluation time and never persisted.
type Period int

const (
	YTD Period = iota
	Monthly
	Weekly
	Daily
)

func (p Period) String() string {
	switch p {
	case YTD:
		return "YTD"
	case Monthly:
		return "Monthly"
	case Weekly:
		return "Weekly"
	case Daily:
		return "Daily"
	default:
		return "YTD"
	}
}

// ParsePeriod maps a user-supplied period name to a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ytd", "year", "yearly":
		return YTD, nil
	case "monthly", "month":
		return Monthly, nil
	case "weekly", "week":
		return Weekly, nil
	case "daily", "day", "today":
		return Daily, nil
	default:
		return YTD, fmt.Errorf("unknown period %q (want YTD|Monthly|Weekly|Daily)", s)
	}
}

// Start returns the inclusive lower bound of the period containing now.
// Weeks start on Sunday, matching the journal's display convention.
func (p Period) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	switch p {
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return day.AddDate(0, 0, -int(day.Weekday()))
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	default: // YTD
		return time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
	}
}

// ProfitLoss sums gains/losses of every trade dated inside the period and
// formats the total with 2 decimal places. Decimal arithmetic avoids the
// cent-drift a float64 running sum would accumulate.
func ProfitLoss(trades []models.Trade, p Period, now time.Time) string {
	start := p.Start(now)
	total := decimal.Zero
	for _, t := range trades {
		if t.Date.Before(start) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(t.GainsLosses))
	}
	return total.StringFixed(2)
}

// RiskReturnRatio formats gains/risk with 2 decimal places, or "N/A" when the
// risk amount is zero (the ratio is undefined, not infinite).
func RiskReturnRatio(gainsLosses, riskAmount float64) string {
	if riskAmount == 0 {
		return "N/A"
	}
	g := decimal.NewFromFloat(gainsLosses)
	r := decimal.NewFromFloat(riskAmount)
	return g.DivRound(r, 2).StringFixed(2)
}
