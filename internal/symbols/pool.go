package symbols

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"newsgen/internal/types"

	"github.com/gocarina/gocsv"
)

// hotShare is the fraction of the pool drawn from the hot table.
const hotShare = 0.6

// LookupError reports a symbol table that cannot satisfy the requested pool.
type LookupError struct {
	Path   string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("symbol table %s: %s", e.Path, e.Reason)
}

// Pool is the shuffled working universe of a multi-symbol run.
type Pool struct {
	Symbols []string
	Dates   types.DateRange
}

// symbolRow is one line of a symbol table. Date columns are only read from row 0 of the hot table.
type symbolRow struct {
	Symbol    string `csv:"symbol"`
	StartDate string `csv:"START_DATE"`
	EndDate   string `csv:"END_DATE"`
}

// SplitCounts returns how many symbols come from the hot and other tables.
func SplitCounts(total int) (hot, other int) {
	hot = int(float64(total) * hotShare)
	return hot, total - hot
}

// LoadPool builds a pool of total symbols from the hot and other tables and shuffles it with r.
func LoadPool(r *rand.Rand, hotPath, otherPath string, total int) (*Pool, error) {
	hotCount, otherCount := SplitCounts(total)

	hotRows, err := readTable(hotPath, hotCount)
	if err != nil {
		return nil, err
	}
	dates, err := dateRange(hotPath, hotRows[0])
	if err != nil {
		return nil, err
	}

	otherRows, err := readTable(otherPath, otherCount)
	if err != nil {
		return nil, err
	}

	syms := make([]string, 0, total)
	for _, row := range hotRows[:hotCount] {
		syms = append(syms, row.Symbol)
	}
	for _, row := range otherRows[:otherCount] {
		syms = append(syms, row.Symbol)
	}

	r.Shuffle(len(syms), func(i, j int) {
		syms[i], syms[j] = syms[j], syms[i]
	})

	return &Pool{Symbols: syms, Dates: dates}, nil
}

// readTable decodes a symbol table and checks it holds at least count usable rows.
// At least one row is always required because the hot table's dates come from row 0.
func readTable(path string, count int) ([]*symbolRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LookupError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	var rows []*symbolRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, &LookupError{Path: path, Reason: fmt.Sprintf("decode failed: %v", err)}
	}

	need := count
	if need < 1 {
		need = 1
	}
	if len(rows) < need {
		return nil, &LookupError{Path: path, Reason: fmt.Sprintf("need %d rows, table has %d", need, len(rows))}
	}
	for i, row := range rows[:count] {
		row.Symbol = strings.TrimSpace(row.Symbol)
		if row.Symbol == "" {
			return nil, &LookupError{Path: path, Reason: fmt.Sprintf("row %d has no symbol column value", i+1)}
		}
	}
	return rows, nil
}

func dateRange(path string, first *symbolRow) (types.DateRange, error) {
	start, err := time.Parse(types.DateLayout, strings.TrimSpace(first.StartDate))
	if err != nil {
		return types.DateRange{}, &LookupError{Path: path, Reason: fmt.Sprintf("row 1 START_DATE '%s' is missing or invalid", first.StartDate)}
	}
	end, err := time.Parse(types.DateLayout, strings.TrimSpace(first.EndDate))
	if err != nil {
		return types.DateRange{}, &LookupError{Path: path, Reason: fmt.Sprintf("row 1 END_DATE '%s' is missing or invalid", first.EndDate)}
	}
	if end.Before(start) {
		return types.DateRange{}, &LookupError{Path: path, Reason: fmt.Sprintf("END_DATE %s is before START_DATE %s", first.EndDate, first.StartDate)}
	}
	return types.DateRange{Start: start, End: end}, nil
}
