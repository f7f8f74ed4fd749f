package output

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"newsgen/internal/types"

	"github.com/gocarina/gocsv"
	"github.com/parquet-go/parquet-go"
)

func makeRecords(n int) []types.NewsRecord {
	records := make([]types.NewsRecord, n)
	for i := range records {
		records[i] = types.NewsRecord{
			Date:            "2024-01-02",
			Time:            fmt.Sprintf("%02d:%02d:%02d", 9+i%8, i%60, (i*7)%60),
			StockSymbol:     fmt.Sprintf("SYM%d", i%17),
			StockExchange:   "NSE",
			Sector:          "IT",
			HeadlineID:      fmt.Sprintf("H%04d", i+1),
			Category:        "earnings",
			Source:          "Reuters",
			Sentiment:       "positive",
			ImpactScore:     0.123,
			ConfidenceScore: 0.87,
			AffectedSymbols: "AAA;BBB",
		}
	}
	return records
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readCSV(t *testing.T, path string) []types.NewsRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []types.NewsRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return rows
}

func readJSON(t *testing.T, path string) []types.NewsRecord {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []types.NewsRecord
	if err := json.Unmarshal(b, &rows); err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return rows
}

func readParquet(t *testing.T, path string) []types.NewsRecord {
	t.Helper()
	rows, err := parquet.ReadFile[types.NewsRecord](path)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return rows
}

func readSQLite(t *testing.T, path string) []types.NewsRecord {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rs, err := db.Query(`SELECT date, time, stock_symbol, stock_exchange, sector, headline_id, category, source, sentiment, impact_score, confidence_score, affected_symbols FROM news ORDER BY rowid`)
	if err != nil {
		t.Fatalf("Failed to query %s: %v", path, err)
	}
	defer rs.Close()

	var rows []types.NewsRecord
	for rs.Next() {
		var r types.NewsRecord
		if err := rs.Scan(&r.Date, &r.Time, &r.StockSymbol, &r.StockExchange, &r.Sector, &r.HeadlineID,
			&r.Category, &r.Source, &r.Sentiment, &r.ImpactScore, &r.ConfidenceScore, &r.AffectedSymbols); err != nil {
			t.Fatal(err)
		}
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteBatches(t *testing.T) {
	records := makeRecords(1200)

	tests := []struct {
		format string
		ext    string
		read   func(*testing.T, string) []types.NewsRecord
	}{
		{"csv", "csv", readCSV},
		{"json", "json", readJSON},
		{"parquet", "parquet", readParquet},
		{"sqlite", "db", readSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "out")

			paths, err := NewWriter().Write(context.Background(), records, dir, tt.format, 500)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(paths) != 3 {
				t.Fatalf("Expected 3 batch files, got %d", len(paths))
			}

			sizes := []int{500, 500, 200}
			offset := 0
			for i, path := range paths {
				want := filepath.Join(dir, fmt.Sprintf("news_batch_%d.%s", i+1, tt.ext))
				if path != want {
					t.Errorf("Expected path %s, got %s", want, path)
				}

				rows := tt.read(t, path)
				if len(rows) != sizes[i] {
					t.Errorf("Batch %d: expected %d rows, got %d", i+1, sizes[i], len(rows))
					continue
				}
				if !reflect.DeepEqual(rows, records[offset:offset+sizes[i]]) {
					t.Errorf("Batch %d: rows do not round-trip", i+1)
				}
				offset += sizes[i]
			}

			if files := listFiles(t, dir); len(files) != 3 {
				t.Errorf("Expected exactly 3 files in %s, got %v", dir, files)
			}
		})
	}
}

func TestWriteCSVHeader(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Write(context.Background(), makeRecords(3), dir, "csv", 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("Expected a header line")
	}
	want := "date,time,stock_symbol,stock_exchange,sector,headline_id,category,source,sentiment,impact_score,confidence_score,affected_symbols"
	if got := strings.TrimSpace(sc.Text()); got != want {
		t.Errorf("Expected header %q, got %q", want, got)
	}
}

func TestWriteJSONIsIndented(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Write(context.Background(), makeRecords(2), dir, "json", 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "[\n  {\n    \"date\": \"2024-01-02\"") {
		t.Errorf("Expected a two-space indented array, got %q", string(b[:40]))
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := NewWriter().Write(context.Background(), makeRecords(10), dir, "xml", 500)

	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("Expected UnsupportedFormatError, got %v", err)
	}
	if ufe.Format != "xml" {
		t.Errorf("Expected format xml in error, got %s", ufe.Format)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no paths, got %v", paths)
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("Expected zero files, got %v", files)
	}
}

func TestWriteFormatCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Write(context.Background(), makeRecords(5), dir, "JSON", 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 1 || filepath.Ext(paths[0]) != ".json" {
		t.Errorf("Expected one .json file, got %v", paths)
	}
}

func TestWriteDefaultBatchSize(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Write(context.Background(), makeRecords(501), dir, "json", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("Expected 2 batches with the default size, got %d", len(paths))
	}
}

func TestWriteNoRecords(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Write(context.Background(), nil, dir, "csv", 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no files, got %v", paths)
	}
}

func TestWriteCancelledKeepsEarlierBatches(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := NewWriter().Write(ctx, makeRecords(10), dir, "csv", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no files for a cancelled context, got %v", paths)
	}
}

func TestWriteSQLiteRunID(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter(WithRunID("run-123")).Write(context.Background(), makeRecords(4), dir, "sqlite", 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	db, err := sql.Open("sqlite", paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var runID string
	var rows int
	if err := db.QueryRow(`SELECT run_id, rows FROM runs`).Scan(&runID, &rows); err != nil {
		t.Fatal(err)
	}
	if runID != "run-123" || rows != 4 {
		t.Errorf("Expected run-123 with 4 rows, got %s with %d", runID, rows)
	}
}

func TestFormats(t *testing.T) {
	want := []string{"csv", "json", "parquet", "sqlite"}
	if got := NewWriter().Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected formats %v, got %v", want, got)
	}
}
