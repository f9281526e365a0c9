package journal

import (
	"strconv"

	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/quotes"
	"github.com/mfreitas/tradejournal/internal/service"
)

// Form holds the entry form's raw field values, as text, exactly as a user
// would type them. Conversion to a TradeRequest happens on submit.
type Form struct {
	Date        string
	Time        string
	Ticker      string
	GainsLosses string
	RiskAmount  string
	Comments    string
}

// Request converts the form into an API request, or fails on non-numeric
// amounts. Date validation is left to the server.
func (f Form) Request() (dto.TradeRequest, error) {
	gains, err := strconv.ParseFloat(f.GainsLosses, 64)
	if err != nil {
		return dto.TradeRequest{}, err
	}
	risk, err := strconv.ParseFloat(f.RiskAmount, 64)
	if err != nil {
		return dto.TradeRequest{}, err
	}
	return dto.TradeRequest{
		Date:        f.Date,
		Time:        f.Time,
		Ticker:      f.Ticker,
		GainsLosses: &gains,
		RiskAmount:  &risk,
		Comments:    f.Comments,
	}, nil
}

// State is the complete view state of a journal session. There is no hidden
// global: every user action is a transition from one State value to the
// next, which keeps the UI layer a pure render of this struct.
type State struct {
	Trades    []models.Trade
	Form      Form
	SortBy    string
	SortOrder string
	EditingID string
	Period    service.Period
	Board     *quotes.Board
	Err       string
}

// NewState returns the initial session state: sorted by date descending,
// year-to-date aggregation, all tickers reading "N/A" until quotes arrive.
func NewState(instruments []string) State {
	return State{
		SortBy:    "date",
		SortOrder: "desc",
		Period:    service.YTD,
		Board:     quotes.NewBoard(instruments),
	}
}

// WithTrades replaces the trade list after a fetch and clears any stale
// fetch error.
func (s State) WithTrades(trades []models.Trade) State {
	s.Trades = trades
	s.Err = ""
	return s
}

// WithError records a user-facing failure message; existing trades stay
// visible so the session keeps operating on stale local state.
func (s State) WithError(msg string) State {
	s.Err = msg
	return s
}

// ToggleSort applies a click on a column header: clicking the current sort
// field flips the direction, clicking a new field selects it newest/largest
// first.
func (s State) ToggleSort(field string) State {
	if s.SortBy == field {
		if s.SortOrder == "asc" {
			s.SortOrder = "desc"
		} else {
			s.SortOrder = "asc"
		}
		return s
	}
	s.SortBy = field
	s.SortOrder = "desc"
	return s
}

// WithPeriod selects the profit/loss aggregation window.
func (s State) WithPeriod(p service.Period) State {
	s.Period = p
	return s
}

// BeginEdit loads an existing trade into the form for editing.
func (s State) BeginEdit(t models.Trade) State {
	s.EditingID = t.ID
	s.Form = Form{
		Date:        t.Date.Format(csvDateLayout),
		Time:        t.Time,
		Ticker:      t.Ticker,
		GainsLosses: strconv.FormatFloat(t.GainsLosses, 'f', -1, 64),
		RiskAmount:  strconv.FormatFloat(t.RiskAmount, 'f', -1, 64),
		Comments:    t.Comments,
	}
	return s
}

// CancelEdit abandons an in-progress edit and clears the form.
func (s State) CancelEdit() State {
	s.EditingID = ""
	s.Form = Form{}
	return s
}

// ApplyQuote records a live price update on the ticker board.
func (s State) ApplyQuote(q models.PriceQuote) State {
	s.Board.Apply(q)
	return s
}
