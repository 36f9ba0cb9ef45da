// Package export writes series snapshots in analysis-friendly formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// Saver writes a batch of bars to a file. Implementations are stateless.
type Saver interface {
	Save(bars []Bar, path string) error
	Extension() string
}

// ForFormat returns the saver for a format name.
func ForFormat(format string) (Saver, error) {
	switch format {
	case "json", "":
		return JSONSaver{}, nil
	case "csv":
		return CSVSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

// JSONSaver writes bars as an indented JSON array.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(bars []Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(bars)
}

// CSVSaver writes bars as CSV with a header row.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		record := []string{
			strconv.FormatInt(b.Timestamp, 10),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ParquetSaver writes bars as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []Bar, path string) error {
	return parquet.WriteFile(path, bars)
}
