package ingest

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/storage"
)

type fakeRepo struct {
	mu       sync.Mutex
	inserted []models.Trade
	listed   []models.Trade
	batchErr error
	listErr  error
}

func (f *fakeRepo) ListSorted(_ context.Context, _, _ string) ([]models.Trade, error) {
	return f.listed, f.listErr
}

func (f *fakeRepo) Insert(_ context.Context, _ models.Trade) (*models.Trade, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) UpdateByID(_ context.Context, _ string, _ models.Trade) (*models.Trade, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) DeleteByID(_ context.Context, _ string) (bool, error) {
	return false, errors.New("not used")
}

func (f *fakeRepo) InsertBatch(trades []models.Trade) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		return f.batchErr
	}
	f.inserted = append(f.inserted, trades...)
	return nil
}

var _ storage.TradesRepository = (*fakeRepo)(nil)

func useFakeRepo(t *testing.T, repo *fakeRepo) {
	t.Helper()
	old := repoCtor
	repoCtor = func(_ *sql.DB) storage.TradesRepository { return repo }
	t.Cleanup(func() { repoCtor = old })
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const header = "date,time,ticker,gainsLosses,riskAmount,comments\n"

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "journal.csv", header+
		"2025-03-14,14:30,EUR/USD,150,50,breakout\n"+
		"2025-03-10,09:05,XAU/USD,-42.5,80,\n")

	repo := &fakeRepo{}
	useFakeRepo(t, repo)

	n, err := ImportFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 || len(repo.inserted) != 2 {
		t.Fatalf("rows: n=%d inserted=%d", n, len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.Ticker != "EUR/USD" || got.GainsLosses != 150 || !got.Date.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("row conversion: %+v", got)
	}
}

func TestImportFile_Batching(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < 5; i++ {
		sb.WriteString("2025-03-14,14:30,EUR/USD,10,5,\n")
	}
	path := writeCSV(t, dir, "journal.csv", sb.String())

	repo := &fakeRepo{}
	n, err := importFile(context.Background(), path, repo, 2)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 5 || len(repo.inserted) != 5 {
		t.Fatalf("rows: n=%d inserted=%d", n, len(repo.inserted))
	}
}

func TestImportFile_BadRowRejectsWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "journal.csv", header+
		"2025-03-14,14:30,EUR/USD,150,50,ok\n"+
		"2025-03-15,10:00,GBP/USD,oops,50,bad\n")

	repo := &fakeRepo{}
	if _, err := importFile(context.Background(), path, repo, defaultBatchSize); err == nil {
		t.Fatalf("expected parse error")
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("nothing should be written on a bad file, got %d rows", len(repo.inserted))
	}
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", header+"2025-03-14,14:30,EUR/USD,10,5,\n")
	writeCSV(t, dir, "b.csv", header+"2025-03-15,10:00,GBP/USD,20,5,\n2025-03-16,11:00,GBP/JPY,30,5,\n")
	writeCSV(t, dir, "notes.txt", "ignored")

	repo := &fakeRepo{}
	useFakeRepo(t, repo)

	n, err := ImportDirectory(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("import dir: %v", err)
	}
	if n != 3 || len(repo.inserted) != 3 {
		t.Fatalf("rows: n=%d inserted=%d", n, len(repo.inserted))
	}
}

func TestImportDirectory_Empty(t *testing.T) {
	repo := &fakeRepo{}
	useFakeRepo(t, repo)

	if _, err := ImportDirectory(context.Background(), t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for directory without CSV files")
	}
}

func TestImportDirectory_FirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", header+"2025-03-14,14:30,EUR/USD,10,5,\n")

	repo := &fakeRepo{batchErr: errors.New("disk full")}
	useFakeRepo(t, repo)

	if _, err := ImportDirectory(context.Background(), dir, nil); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected batch error, got %v", err)
	}
}

func TestExportFile(t *testing.T) {
	repo := &fakeRepo{listed: []models.Trade{
		{ID: "a", Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Time: "14:30", Ticker: "EUR/USD", GainsLosses: 150, RiskAmount: 50},
	}}
	useFakeRepo(t, repo)

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := ExportFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows: %d", n)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(b)
	if !strings.HasPrefix(content, "date,time,ticker,gainsLosses,riskAmount,comments\n") {
		t.Fatalf("missing header: %q", content)
	}
	if !strings.Contains(content, "2025-03-14,14:30,EUR/USD,150,50,") {
		t.Fatalf("missing row: %q", content)
	}
}
