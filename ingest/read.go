package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a source file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
)

// ErrUnsupportedFormat is returned for a file type no reader handles.
var ErrUnsupportedFormat = errors.New("ingest: unsupported format")

// DetectFormat infers the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a format name. An empty name means "detect".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "", FormatCSV, FormatTSV, FormatParquet, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ReadOptions selects how a file is read.
type ReadOptions struct {
	// Format overrides extension detection when set.
	Format Format
	// Sheet is the XLSX sheet; empty selects the first one.
	Sheet string
	// Columns restricts strict numeric parsing to these columns. Other
	// columns are kept only when they are numeric.
	Columns []string
}

// Read loads a table from path.
func Read(path string, opts ReadOptions) (*Table, error) {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(f, ',', opts.Columns)
	case FormatTSV:
		return ReadCSV(f, '\t', opts.Columns)
	case FormatParquet:
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("ingest: stat %s: %w", path, err)
		}
		return ReadParquet(f, info.Size(), opts.Columns)
	case FormatXLSX:
		return ReadXLSX(f, opts.Sheet, opts.Columns)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadCSV reads a delimited table whose first record is the header.
func ReadCSV(r io.Reader, comma rune, columns []string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, columnError("", "empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: read records: %w", err)
	}

	return tableFromRecords(header, records, columns)
}
