package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"newsgen/internal/types"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputFormat = "csv"
	DefaultBatchSize    = 500
	DefaultNoOfDays     = 1

	defaultHotSymbolsFile   = "data/hot_symbols.csv"
	defaultOtherSymbolsFile = "data/other_symbols.csv"
)

// ParseError reports a configuration file that is missing, malformed or invalid.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewsParams holds the keys shared by both generator variants.
type NewsParams struct {
	NumNews              int                     `yaml:"NUM_NEWS"`
	NewsSentiments       []types.SentimentWeight `yaml:"NEWS_SENTIMENTS"`
	ImpactScoreRange     *types.Range            `yaml:"IMPACT_SCORE_RANGE"`
	ConfidenceScoreRange *types.Range            `yaml:"CONFIDENCE_SCORE_RANGE"`
	NewsCategories       []string                `yaml:"NEWS_CATEGORIES"`
	NewsSources          []string                `yaml:"NEWS_SOURCES"`
	OutputFormat         string                  `yaml:"OUTPUT_FORMAT"`
	BatchSize            int                     `yaml:"INPUT_BATCH_SIZE"`
	Seed                 uint64                  `yaml:"SEED"`
	WriteSummary         bool                    `yaml:"WRITE_SUMMARY"`
}

// MultiConfig configures the multi-symbol generator.
type MultiConfig struct {
	NewsParams `yaml:",inline"`

	SymbolsRange                int              `yaml:"SYMBOLS_RANGE"`
	SharedHeadlineProbability   *float64         `yaml:"SHARED_HEADLINE_PROBABILITY"`
	MaxSymbolsPerSharedHeadline *int             `yaml:"MAX_SYMBOLS_PER_SHARED_HEADLINE"`
	MaxAffectedSymbols          *int             `yaml:"MAX_AFFECTED_SYMBOLS"`
	RefExchanges                []types.Exchange `yaml:"REF_EXCHANGES"`
	RefSectors                  []string         `yaml:"REF_SECTORS"`
	HotSymbolsFile              string           `yaml:"HOT_SYMBOLS_FILE"`
	OtherSymbolsFile            string           `yaml:"OTHER_SYMBOLS_FILE"`
	PoolStartDate               string           `yaml:"POOL_START_DATE"`
	PoolEndDate                 string           `yaml:"POOL_END_DATE"`
}

// SingleConfig configures the single-symbol generator.
type SingleConfig struct {
	NewsParams `yaml:",inline"`

	SymbolDetails *types.SymbolDetails `yaml:"SINGLE_SYMBOL_DETAILS"`
	Date          string               `yaml:"DATE"`
	NoOfDays      *int                 `yaml:"NO_OF_DAYS"`
}

// LoadMultiConfig reads and validates a multi-symbol configuration.
func LoadMultiConfig(path string) (*MultiConfig, error) {
	var c MultiConfig
	if err := decodeStrict(path, &c); err != nil {
		return nil, err
	}

	c.NewsParams.applyDefaults()

	// Symbol tables live next to the config directory unless given explicitly
	base := filepath.Dir(filepath.Dir(path))
	if c.HotSymbolsFile == "" {
		c.HotSymbolsFile = filepath.Join(base, defaultHotSymbolsFile)
	}
	if c.OtherSymbolsFile == "" {
		c.OtherSymbolsFile = filepath.Join(base, defaultOtherSymbolsFile)
	}

	if err := c.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("config validation failed: %w", err)}
	}
	return &c, nil
}

// LoadSingleConfig reads and validates a single-symbol configuration.
func LoadSingleConfig(path string) (*SingleConfig, error) {
	var c SingleConfig
	if err := decodeStrict(path, &c); err != nil {
		return nil, err
	}

	c.NewsParams.applyDefaults()
	if c.NoOfDays == nil {
		days := DefaultNoOfDays
		c.NoOfDays = &days
	}

	if err := c.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("config validation failed: %w", err)}
	}
	return &c, nil
}

// decodeStrict unmarshals a YAML document, rejecting keys the target struct does not declare.
func decodeStrict(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func (p *NewsParams) applyDefaults() {
	if p.OutputFormat == "" {
		p.OutputFormat = DefaultOutputFormat
	}
	if p.BatchSize == 0 {
		p.BatchSize = DefaultBatchSize
	}
}

// Validate checks the keys shared by both variants.
func (p *NewsParams) Validate() error {
	if p.NumNews <= 0 {
		return fmt.Errorf("NUM_NEWS must be greater than 0, got %d", p.NumNews)
	}
	if len(p.NewsSentiments) == 0 {
		return errors.New("NEWS_SENTIMENTS cannot be empty")
	}
	for i, s := range p.NewsSentiments {
		if s.Sentiment == "" {
			return fmt.Errorf("NEWS_SENTIMENTS[%d] must have a sentiment", i)
		}
		if s.Probability < 0 {
			return fmt.Errorf("NEWS_SENTIMENTS[%d] probability cannot be negative, got %.3f", i, s.Probability)
		}
	}
	if err := validateRange("IMPACT_SCORE_RANGE", p.ImpactScoreRange); err != nil {
		return err
	}
	if err := validateRange("CONFIDENCE_SCORE_RANGE", p.ConfidenceScoreRange); err != nil {
		return err
	}
	if len(p.NewsCategories) == 0 {
		return errors.New("NEWS_CATEGORIES cannot be empty")
	}
	if len(p.NewsSources) == 0 {
		return errors.New("NEWS_SOURCES cannot be empty")
	}
	if p.BatchSize < 0 {
		return fmt.Errorf("INPUT_BATCH_SIZE cannot be negative, got %d", p.BatchSize)
	}
	return nil
}

// Validate checks the multi-symbol configuration.
func (c *MultiConfig) Validate() error {
	if err := c.NewsParams.Validate(); err != nil {
		return err
	}
	if c.SymbolsRange <= 0 {
		return fmt.Errorf("SYMBOLS_RANGE must be greater than 0, got %d", c.SymbolsRange)
	}
	if c.SharedHeadlineProbability == nil {
		return errors.New("SHARED_HEADLINE_PROBABILITY is required")
	}
	if c.MaxSymbolsPerSharedHeadline == nil {
		return errors.New("MAX_SYMBOLS_PER_SHARED_HEADLINE is required")
	}
	if c.MaxAffectedSymbols == nil {
		return errors.New("MAX_AFFECTED_SYMBOLS is required")
	}
	if p := *c.SharedHeadlineProbability; p < 0 || p > 1 {
		return fmt.Errorf("SHARED_HEADLINE_PROBABILITY must be between 0-1, got %.3f", p)
	}
	if *c.SharedHeadlineProbability > 0 && *c.MaxSymbolsPerSharedHeadline < 2 {
		return fmt.Errorf("MAX_SYMBOLS_PER_SHARED_HEADLINE must be at least 2, got %d", *c.MaxSymbolsPerSharedHeadline)
	}
	if *c.MaxAffectedSymbols < 0 {
		return fmt.Errorf("MAX_AFFECTED_SYMBOLS cannot be negative, got %d", *c.MaxAffectedSymbols)
	}
	if len(c.RefExchanges) == 0 {
		return errors.New("REF_EXCHANGES cannot be empty")
	}
	for i, ex := range c.RefExchanges {
		if ex.Code == "" {
			return fmt.Errorf("REF_EXCHANGES[%d] must have an exchange_code", i)
		}
	}
	if len(c.RefSectors) == 0 {
		return errors.New("REF_SECTORS cannot be empty")
	}
	if (c.PoolStartDate == "") != (c.PoolEndDate == "") {
		return errors.New("POOL_START_DATE and POOL_END_DATE must be set together")
	}
	if c.PoolStartDate != "" {
		dr, err := c.PoolDates()
		if err != nil {
			return err
		}
		if dr.End.Before(dr.Start) {
			return fmt.Errorf("POOL_END_DATE %s is before POOL_START_DATE %s", c.PoolEndDate, c.PoolStartDate)
		}
	}
	return nil
}

// HasPoolDates reports whether the pool date range is configured explicitly.
func (c *MultiConfig) HasPoolDates() bool {
	return c.PoolStartDate != "" && c.PoolEndDate != ""
}

// PoolDates parses POOL_START_DATE and POOL_END_DATE.
func (c *MultiConfig) PoolDates() (types.DateRange, error) {
	start, err := time.Parse(types.DateLayout, c.PoolStartDate)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("invalid POOL_START_DATE '%s': %w", c.PoolStartDate, err)
	}
	end, err := time.Parse(types.DateLayout, c.PoolEndDate)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("invalid POOL_END_DATE '%s': %w", c.PoolEndDate, err)
	}
	return types.DateRange{Start: start, End: end}, nil
}

// ExchangeCodes returns the exchange codes in configured order.
func (c *MultiConfig) ExchangeCodes() []string {
	codes := make([]string, len(c.RefExchanges))
	for i, ex := range c.RefExchanges {
		codes[i] = ex.Code
	}
	return codes
}

// Validate checks the single-symbol configuration.
func (c *SingleConfig) Validate() error {
	if err := c.NewsParams.Validate(); err != nil {
		return err
	}
	if c.SymbolDetails == nil {
		return errors.New("SINGLE_SYMBOL_DETAILS is required")
	}
	if strings.TrimSpace(c.SymbolDetails.Symbol) == "" {
		return errors.New("SINGLE_SYMBOL_DETAILS.symbol cannot be empty")
	}
	if c.SymbolDetails.Exchange == "" {
		return errors.New("SINGLE_SYMBOL_DETAILS.exchange cannot be empty")
	}
	if c.SymbolDetails.Sector == "" {
		return errors.New("SINGLE_SYMBOL_DETAILS.sector cannot be empty")
	}
	if _, err := c.BaseDate(); err != nil {
		return err
	}
	if c.NoOfDays == nil {
		return errors.New("NO_OF_DAYS is required")
	}
	if *c.NoOfDays < 1 {
		return fmt.Errorf("NO_OF_DAYS must be at least 1, got %d", *c.NoOfDays)
	}
	return nil
}

// BaseDate parses DATE.
func (c *SingleConfig) BaseDate() (time.Time, error) {
	if c.Date == "" {
		return time.Time{}, errors.New("DATE is required")
	}
	d, err := time.Parse(types.DateLayout, c.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid DATE '%s': %w", c.Date, err)
	}
	return d, nil
}

func validateRange(key string, r *types.Range) error {
	if r == nil {
		return fmt.Errorf("%s is required", key)
	}
	if r.Min() > r.Max() {
		return fmt.Errorf("%s min %.3f is greater than max %.3f", key, r.Min(), r.Max())
	}
	return nil
}
