package output

import (
	"encoding/json"
	"os"

	"newsgen/internal/types"

	"github.com/gocarina/gocsv"
	"github.com/parquet-go/parquet-go"
)

type csvEncoder struct{}

func (csvEncoder) Ext() string { return "csv" }

// Encode writes a header row from the record's csv tags followed by one row per record.
func (csvEncoder) Encode(path string, batch []types.NewsRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&batch, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonEncoder struct{}

func (jsonEncoder) Ext() string { return "json" }

// Encode writes the batch as a two-space indented JSON array.
func (jsonEncoder) Encode(path string, batch []types.NewsRecord) error {
	b, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

type parquetEncoder struct{}

func (parquetEncoder) Ext() string { return "parquet" }

// Encode writes one parquet column per record field. There is no row-index column.
func (parquetEncoder) Encode(path string, batch []types.NewsRecord) error {
	return parquet.WriteFile(path, batch)
}
