package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"newsgen/internal/interfaces"
	"newsgen/internal/logger"
	"newsgen/internal/types"
)

// DefaultBatchSize is used when a non-positive batch size is requested.
const DefaultBatchSize = 500

// UnsupportedFormatError is returned for an output format with no encoder.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format: %s", e.Format)
}

// encoder writes one batch to path.
type encoder interface {
	Ext() string
	Encode(path string, batch []types.NewsRecord) error
}

// Writer writes record batches, one file per batch, named news_batch_<N>.<ext>.
type Writer struct {
	encoders map[string]encoder
}

var _ interfaces.BatchWriter = (*Writer)(nil)

// Option configures a Writer.
type Option func(*Writer)

// WithRunID tags sqlite output with the run it came from.
func WithRunID(runID string) Option {
	return func(w *Writer) {
		w.encoders["sqlite"] = &sqliteEncoder{runID: runID}
	}
}

// NewWriter returns a Writer supporting csv, json, parquet and sqlite.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		encoders: map[string]encoder{
			"csv":     csvEncoder{},
			"json":    jsonEncoder{},
			"parquet": parquetEncoder{},
			"sqlite":  &sqliteEncoder{},
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Formats lists the supported format names.
func (w *Writer) Formats() []string {
	names := make([]string, 0, len(w.encoders))
	for name := range w.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write splits records into batches of at most batchSize and writes each to dir.
// The format is checked before anything touches disk. A failing batch aborts the
// remaining ones; files already written stay in place.
func (w *Writer) Write(ctx context.Context, records []types.NewsRecord, dir, format string, batchSize int) ([]string, error) {
	enc, ok := w.encoders[strings.ToLower(format)]
	if !ok {
		return nil, &UnsupportedFormatError{Format: format}
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	paths := make([]string, 0, (len(records)+batchSize-1)/batchSize)
	for start := 0; start < len(records); start += batchSize {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		end := min(start+batchSize, len(records))
		batch := records[start:end]
		index := start/batchSize + 1
		path := BatchPath(dir, index, enc.Ext())

		if err := enc.Encode(path, batch); err != nil {
			return paths, fmt.Errorf("write batch %d to %s: %w", index, path, err)
		}
		logger.Batch(ctx, index, len(batch), path)
		paths = append(paths, path)
	}

	return paths, nil
}

// BatchPath returns the file path of the 1-based batch index.
func BatchPath(dir string, index int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("news_batch_%d.%s", index, ext))
}
