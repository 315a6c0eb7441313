package ingest

import (
	"math"
	"strconv"
	"strings"
)

// Table is a column-oriented numeric table. Missing cells are NaN.
type Table struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// NewTable returns an empty table with rows rows.
func NewTable(rows int) *Table {
	return &Table{columns: make(map[string][]float64), rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// AddColumn adds or replaces a column. values must have Len() entries.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != t.rows {
		return columnError(name, "length "+strconv.Itoa(len(values))+" does not match table length "+strconv.Itoa(t.rows))
	}
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = values
	return nil
}

// Column returns the named column. An exact match wins over a
// case-insensitive one.
func (t *Table) Column(name string) ([]float64, bool) {
	if c, ok := t.columns[name]; ok {
		return c, true
	}
	for _, n := range t.names {
		if strings.EqualFold(n, name) {
			return t.columns[n], true
		}
	}
	return nil, false
}

// parseCell converts one textual cell. Blank cells and the usual missing
// markers map to NaN.
func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "none":
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// tableFromRecords builds a table from a header row and string records.
// Short records are padded with missing values. Only the wanted columns
// are parsed; other columns are kept only if they parse cleanly.
func tableFromRecords(header []string, records [][]string, wanted []string) (*Table, error) {
	t := NewTable(len(records))

	want := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		want[strings.ToLower(w)] = true
	}

	for j, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		strict := len(wanted) == 0 || want[strings.ToLower(name)]

		col := make([]float64, len(records))
		ok := true
		for i, rec := range records {
			if j >= len(rec) {
				col[i] = math.NaN()
				continue
			}
			v, parsed := parseCell(rec[j])
			if !parsed {
				if strict {
					return nil, cellError(name, i, "non-numeric value "+strconv.Quote(rec[j]))
				}
				ok = false
				break
			}
			col[i] = v
		}
		if !ok {
			continue
		}
		if err := t.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	return t, nil
}
