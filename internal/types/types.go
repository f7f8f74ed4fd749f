package types

import "time"

// DateLayout is the calendar-day format used in configs, symbol tables and output rows.
const DateLayout = "2006-01-02"

// NewsRecord is one generated news row. Field order is the output column order.
type NewsRecord struct {
	Date            string  `json:"date" csv:"date" parquet:"date"`
	Time            string  `json:"time" csv:"time" parquet:"time"`
	StockSymbol     string  `json:"stock_symbol" csv:"stock_symbol" parquet:"stock_symbol"`
	StockExchange   string  `json:"stock_exchange" csv:"stock_exchange" parquet:"stock_exchange"`
	Sector          string  `json:"sector" csv:"sector" parquet:"sector"`
	HeadlineID      string  `json:"headline_id" csv:"headline_id" parquet:"headline_id"`
	Category        string  `json:"category" csv:"category" parquet:"category"`
	Source          string  `json:"source" csv:"source" parquet:"source"`
	Sentiment       string  `json:"sentiment" csv:"sentiment" parquet:"sentiment"`
	ImpactScore     float64 `json:"impact_score" csv:"impact_score" parquet:"impact_score"`
	ConfidenceScore float64 `json:"confidence_score" csv:"confidence_score" parquet:"confidence_score"`
	AffectedSymbols string  `json:"affected_symbols" csv:"affected_symbols" parquet:"affected_symbols"`
}

// SentimentWeight is one entry of NEWS_SENTIMENTS.
type SentimentWeight struct {
	Sentiment   string  `yaml:"sentiment"`
	Probability float64 `yaml:"probability"`
}

// Exchange is one entry of REF_EXCHANGES. Only the code reaches the output.
type Exchange struct {
	Code    string `yaml:"exchange_code"`
	Name    string `yaml:"exchange_name"`
	Country string `yaml:"country"`
}

// SymbolDetails is the fixed instrument of the single-symbol variant.
type SymbolDetails struct {
	Symbol   string `yaml:"symbol"`
	Exchange string `yaml:"exchange"`
	Sector   string `yaml:"sector"`
}

// Range is a closed [min, max] interval written in YAML as a two-element sequence.
type Range [2]float64

func (r Range) Min() float64 { return r[0] }
func (r Range) Max() float64 { return r[1] }

// DateRange bounds the calendar days a multi-symbol run may emit.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the whole-day distance between Start and End.
func (d DateRange) Days() int {
	return int(d.End.Sub(d.Start).Hours() / 24)
}

// Variant names the generator that produced a run.
type Variant string

const (
	VariantMulti  Variant = "multi_symbol"
	VariantSingle Variant = "single_symbol"
)
