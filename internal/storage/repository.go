package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// TradesRepository defines the contract for journal persistence.
//
// Every operation is a single-document action against a flat collection of
// trades; there are no relationships and no multi-row consistency concerns.
type TradesRepository interface {
	ListSorted(ctx context.Context, sortBy, order string) ([]models.Trade, error)
	Insert(ctx context.Context, t models.Trade) (*models.Trade, error)
	UpdateByID(ctx context.Context, id string, t models.Trade) (*models.Trade, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	InsertBatch(trades []models.Trade) error
}

// sortColumns whitelists the API sort fields and maps them to columns.
// Anything outside this map falls back to the default sort (date).
var sortColumns = map[string]string{
	"date":        "trade_date",
	"time":        "trade_time",
	"ticker":      "ticker",
	"gainsLosses": "gains_losses",
	"riskAmount":  "risk_amount",
	"createdAt":   "created_at",
}

const listColumns = `id, trade_date, trade_time, ticker, gains_losses, risk_amount, comments, created_at, updated_at`

type tradesRepository struct {
	db *sql.DB
}

func NewTradesRepository(db *sql.DB) TradesRepository {
	return &tradesRepository{db: db}
}

// ListSorted returns all trades ordered by the requested field and direction.
//
// Behavior:
//   - sortBy outside the whitelist (or empty) sorts by trade date.
//   - order is "asc" or "desc" (case-insensitive); anything else means desc,
//     matching the API default of newest-first.
//   - Identifiers are interpolated from the whitelist only; user input never
//     reaches the SQL text.
func (r *tradesRepository) ListSorted(ctx context.Context, sortBy, order string) ([]models.Trade, error) {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = sortColumns["date"]
	}
	dir := "DESC"
	if order == "asc" || order == "ASC" {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM trades ORDER BY %s %s, id ASC`, listColumns, col, dir)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Trade
	for rows.Next() {
		var t models.Trade
		var comments sql.NullString
		if err := rows.Scan(&t.ID, &t.Date, &t.Time, &t.Ticker, &t.GainsLosses, &t.RiskAmount, &comments, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Comments = comments.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

// Insert stores a new trade and returns it with its assigned id and
// store-managed timestamps filled in.
func (r *tradesRepository) Insert(ctx context.Context, t models.Trade) (*models.Trade, error) {
	t.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trades (id, trade_date, trade_time, ticker, gains_losses, risk_amount, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, t.ID, t.Date, t.Time, t.Ticker, t.GainsLosses, t.RiskAmount, t.Comments).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert trade: %w", err)
	}
	return &t, nil
}

// UpdateByID replaces the mutable fields of an existing trade in place.
//
// Returns:
//   - (*Trade, nil): the updated record.
//   - (nil, nil): no trade exists with that id; callers map this to 404.
func (r *tradesRepository) UpdateByID(ctx context.Context, id string, t models.Trade) (*models.Trade, error) {
	t.ID = id

	err := r.db.QueryRowContext(ctx, `
		UPDATE trades
		SET trade_date = $2, trade_time = $3, ticker = $4,
		    gains_losses = $5, risk_amount = $6, comments = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, id, t.Date, t.Time, t.Ticker, t.GainsLosses, t.RiskAmount, t.Comments).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update trade %s: %w", id, err)
	}
	return &t, nil
}

// DeleteByID removes a trade. The bool reports whether a row was deleted;
// deleting a missing id is not an error.
func (r *tradesRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete trade %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertBatch inserts many trades in a single transaction using COPY.
// Used by the bulk CSV import mode; ids are assigned here.
func (r *tradesRepository) InsertBatch(trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"trades",
		"id",
		"trade_date",
		"trade_time",
		"ticker",
		"gains_losses",
		"risk_amount",
		"comments",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, t := range trades {
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.Exec(id, t.Date, t.Time, t.Ticker, t.GainsLosses, t.RiskAmount, t.Comments); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
