// Package ingest moves journals between CSV files and the trade store in
// bulk, bypassing the HTTP API. It backs the import and export run modes.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/journal"
	"github.com/mfreitas/tradejournal/internal/logger"
	"github.com/mfreitas/tradejournal/internal/storage"
)

const (
	defaultBatchSize = 1000
	maxParallelFiles = 4
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TradesRepository {
	return storage.NewTradesRepository(db)
}

// ImportFile loads one journal CSV into the store.
//
// Behavior:
//   - The file must carry the exact interchange header; a malformed header or
//     row rejects the whole file before anything is written.
//   - Valid rows are inserted through COPY in batches of defaultBatchSize.
//
// Returns the number of trades inserted.
func ImportFile(ctx context.Context, path string, db *sql.DB) (int, error) {
	return importFile(ctx, path, repoCtor(db), defaultBatchSize)
}

func importFile(ctx context.Context, path string, repo storage.TradesRepository, batchSize int) (int, error) {
	start := time.Now()
	log := logger.With("ingest")

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	requests, err := journal.ParseCSV(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	total := 0
	for len(requests) > 0 {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n := batchSize
		if n > len(requests) {
			n = len(requests)
		}
		batch, err := toModels(requests[:n])
		if err != nil {
			return total, fmt.Errorf("file %s: %w", path, err)
		}
		requests = requests[n:]

		if err := repo.InsertBatch(batch); err != nil {
			return total, fmt.Errorf("insert batch: %w", err)
		}
		total += n
	}

	log.Info().
		Str("file", filepath.Base(path)).
		Int("rows", total).
		Dur("elapsed", time.Since(start)).
		Msg("import done")
	return total, nil
}

// ImportDirectory imports every *.csv file in dir.
//
// Behavior:
//   - Files are processed concurrently, capped at min(maxParallelFiles, NumCPU).
//   - The first failing file cancels the rest and is returned.
//   - A directory with no CSV files is an error; an empty journal import is
//     almost always a wrong path.
//
// Returns the total number of trades inserted across all files.
func ImportDirectory(ctx context.Context, dir string, db *sql.DB) (int, error) {
	repo := repoCtor(db)

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no CSV files in %s", dir)
	}

	parallel := maxParallelFiles
	if c := runtime.NumCPU(); c < parallel {
		parallel = c
	}
	logger.L().Info().Int("files", len(files)).Int("max_parallel", parallel).Str("dir", dir).Msg("import start")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, parallel)
	counts := make([]int, len(files))

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			n, err := importFile(gctx, f, repo, defaultBatchSize)
			if err != nil {
				return err
			}
			counts[idx] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// ExportFile writes the whole journal to path in interchange format,
// sorted by date descending like the default API listing.
func ExportFile(ctx context.Context, path string, db *sql.DB) (int, error) {
	log := logger.With("ingest")
	repo := repoCtor(db)

	trades, err := repo.ListSorted(ctx, "date", "desc")
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := journal.ExportCSV(f, trades); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	log.Info().Str("file", filepath.Base(path)).Int("rows", len(trades)).Msg("export done")
	return len(trades), nil
}

func toModels(requests []dto.TradeRequest) ([]models.Trade, error) {
	out := make([]models.Trade, 0, len(requests))
	for _, req := range requests {
		t, err := req.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
