package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ReadParquet reads the flat numeric leaf columns of a Parquet file.
// DOUBLE, FLOAT, INT32 and INT64 columns are supported; nulls become NaN.
// Requested columns of any other type are a validation error, the rest are
// skipped.
func ReadParquet(r io.ReaderAt, size int64, columns []string) (*Table, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("ingest: open parquet: %w", err)
	}

	want := make(map[string]bool, len(columns))
	for _, c := range columns {
		want[strings.ToLower(c)] = true
	}

	t := NewTable(int(f.NumRows()))
	for _, path := range f.Schema().Columns() {
		if len(path) != 1 {
			continue
		}
		name := path[0]
		strict := len(columns) == 0 || want[strings.ToLower(name)]

		leaf, ok := f.Schema().Lookup(name)
		if !ok {
			continue
		}
		if !numericKind(leaf.Node.Type().Kind()) {
			if strict && len(columns) > 0 {
				return nil, columnError(name, "unsupported parquet type "+leaf.Node.Type().String())
			}
			continue
		}

		values, err := readParquetColumn(f, leaf.ColumnIndex, t.Len())
		if err != nil {
			return nil, fmt.Errorf("ingest: column %q: %w", name, err)
		}
		if err := t.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func numericKind(k parquet.Kind) bool {
	switch k {
	case parquet.Double, parquet.Float, parquet.Int32, parquet.Int64:
		return true
	default:
		return false
	}
}

func readParquetColumn(f *parquet.File, columnIndex, rows int) ([]float64, error) {
	out := make([]float64, 0, rows)
	buf := make([]parquet.Value, 1024)

	for _, rg := range f.RowGroups() {
		pages := rg.ColumnChunks()[columnIndex].Pages()
		err := func() error {
			defer pages.Close()
			for {
				page, err := pages.ReadPage()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				values := page.Values()
				for {
					n, err := values.ReadValues(buf)
					for _, v := range buf[:n] {
						out = append(out, parquetFloat(v))
					}
					if errors.Is(err, io.EOF) {
						break
					}
					if err != nil {
						return err
					}
				}
			}
		}()
		if err != nil {
			return nil, err
		}
	}

	if len(out) != rows {
		return nil, fmt.Errorf("read %d values for %d rows", len(out), rows)
	}
	return out, nil
}

func parquetFloat(v parquet.Value) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	default:
		return math.NaN()
	}
}
