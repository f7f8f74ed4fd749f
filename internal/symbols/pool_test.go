package symbols

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTable(t *testing.T, dir, name, header string, rows []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func symbolRows(prefix string, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("%s%d,2024-01-01,2024-03-31", prefix, i)
	}
	return rows
}

func TestSplitCounts(t *testing.T) {
	tests := []struct {
		total, hot, other int
	}{
		{10, 6, 4},
		{1, 0, 1},
		{3, 1, 2},
		{7, 4, 3},
		{100, 60, 40},
	}
	for _, tt := range tests {
		hot, other := SplitCounts(tt.total)
		if hot != tt.hot || other != tt.other {
			t.Errorf("SplitCounts(%d): expected %d/%d, got %d/%d", tt.total, tt.hot, tt.other, hot, other)
		}
	}
}

func TestLoadPool(t *testing.T) {
	dir := t.TempDir()
	hot := writeTable(t, dir, "hot.csv", "symbol,START_DATE,END_DATE", symbolRows("HOT", 10))
	other := writeTable(t, dir, "other.csv", "symbol,START_DATE,END_DATE", symbolRows("OTH", 10))

	pool, err := LoadPool(rand.New(rand.NewPCG(1, 1)), hot, other, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(pool.Symbols) != 10 {
		t.Fatalf("Expected 10 symbols, got %d", len(pool.Symbols))
	}

	hotSeen, otherSeen := map[string]bool{}, map[string]bool{}
	for _, s := range pool.Symbols {
		switch {
		case strings.HasPrefix(s, "HOT"):
			hotSeen[s] = true
		case strings.HasPrefix(s, "OTH"):
			otherSeen[s] = true
		default:
			t.Errorf("Unexpected symbol %s", s)
		}
	}
	if len(hotSeen) != 6 {
		t.Errorf("Expected 6 hot symbols, got %d", len(hotSeen))
	}
	if len(otherSeen) != 4 {
		t.Errorf("Expected 4 other symbols, got %d", len(otherSeen))
	}

	// Only the leading rows of each table are used
	for i := 0; i < 6; i++ {
		if !hotSeen[fmt.Sprintf("HOT%d", i)] {
			t.Errorf("Expected HOT%d in pool", i)
		}
	}
	for i := 0; i < 4; i++ {
		if !otherSeen[fmt.Sprintf("OTH%d", i)] {
			t.Errorf("Expected OTH%d in pool", i)
		}
	}

	if got := pool.Dates.Start.Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("Expected start date 2024-01-01, got %s", got)
	}
	if got := pool.Dates.End.Format("2006-01-02"); got != "2024-03-31" {
		t.Errorf("Expected end date 2024-03-31, got %s", got)
	}
}

func TestLoadPoolDeterministicShuffle(t *testing.T) {
	dir := t.TempDir()
	hot := writeTable(t, dir, "hot.csv", "symbol,START_DATE,END_DATE", symbolRows("HOT", 30))
	other := writeTable(t, dir, "other.csv", "symbol,START_DATE,END_DATE", symbolRows("OTH", 30))

	a, err := LoadPool(rand.New(rand.NewPCG(9, 9)), hot, other, 40)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadPool(rand.New(rand.NewPCG(9, 9)), hot, other, 40)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Symbols, b.Symbols) {
		t.Error("Expected equal seeds to give equal pools")
	}
}

func TestLoadPoolUsesFirstRowDates(t *testing.T) {
	dir := t.TempDir()
	hot := writeTable(t, dir, "hot.csv", "symbol,START_DATE,END_DATE", []string{
		"AAA,2023-05-01,2023-05-10",
		"BBB,1999-01-01,1999-12-31",
	})
	other := writeTable(t, dir, "other.csv", "symbol", []string{"CCC", "DDD"})

	pool, err := LoadPool(rand.New(rand.NewPCG(1, 2)), hot, other, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if pool.Dates.Days() != 9 {
		t.Errorf("Expected 9 day range from row 1, got %d", pool.Dates.Days())
	}
}

func TestLoadPoolErrors(t *testing.T) {
	dir := t.TempDir()
	goodHot := writeTable(t, dir, "hot.csv", "symbol,START_DATE,END_DATE", symbolRows("HOT", 10))
	goodOther := writeTable(t, dir, "other.csv", "symbol,START_DATE,END_DATE", symbolRows("OTH", 10))
	shortOther := writeTable(t, dir, "short.csv", "symbol,START_DATE,END_DATE", symbolRows("OTH", 2))
	noSymbol := writeTable(t, dir, "nosym.csv", "ticker,START_DATE,END_DATE", symbolRows("X", 10))
	noDates := writeTable(t, dir, "nodates.csv", "symbol", []string{"A", "B", "C", "D", "E", "F"})

	tests := []struct {
		name       string
		hot, other string
		total      int
		wantPath   string
	}{
		{"too few other rows", goodHot, shortOther, 10, shortOther},
		{"too few hot rows", goodHot, goodOther, 30, goodHot},
		{"missing symbol column", noSymbol, goodOther, 10, noSymbol},
		{"missing date columns", noDates, goodOther, 10, noDates},
		{"missing file", filepath.Join(dir, "absent.csv"), goodOther, 10, filepath.Join(dir, "absent.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPool(rand.New(rand.NewPCG(1, 1)), tt.hot, tt.other, tt.total)

			var le *LookupError
			if !errors.As(err, &le) {
				t.Fatalf("Expected LookupError, got %v", err)
			}
			if le.Path != tt.wantPath {
				t.Errorf("Expected error for %s, got %s", tt.wantPath, le.Path)
			}
		})
	}
}
