package ingest

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

// oddballRows is a ten-row recording: rows 0, 3 and 6 are markers with
// codes 1, 2, 1 and empty channels, the others are signal rows.
var oddballRows = [][]float64{
	{nan, nan, nan, nan, 1},
	{1, 10, 100, 1000, nan},
	{2, 20, 200, 2000, nan},
	{nan, nan, nan, nan, 2},
	{3, 30, 300, 3000, nan},
	{4, 40, 400, 4000, nan},
	{nan, nan, nan, nan, 1},
	{5, 50, 500, 5000, nan},
	{6, 60, 600, 6000, nan},
	{7, 70, 700, 7000, nan},
}

var oddballHeader = []string{"o1", "o2", "t3", "t4", "event_id"}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(t *testing.T, header []string, rows [][]float64, sep string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(header, sep) + "\n")
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = formatCell(v)
		}
		b.WriteString(strings.Join(cells, sep) + "\n")
	}
	ext := ".csv"
	if sep == "\t" {
		ext = ".tsv"
	}
	path := filepath.Join(t.TempDir(), "recording"+ext)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func oddballTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable(len(oddballRows))
	for j, name := range oddballHeader {
		col := make([]float64, len(oddballRows))
		for i, r := range oddballRows {
			col[i] = r[j]
		}
		require.NoError(t, tbl.AddColumn(name, col))
	}
	return tbl
}
