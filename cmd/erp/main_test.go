package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erp/erp"
)

func TestPrintMeasures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMeasures(&buf, []erp.Measure{
		{Condition: "Odd", Channel: "O1", NAve: 20, PeakAmplitude: 7.25, PeakLatency: 0.312, MeanAmplitude: 3.5},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Condition"))
	assert.Equal(t, []string{"Odd", "O1", "20", "7.250", "312", "3.500"}, strings.Fields(lines[2]))

	buf.Reset()
	require.NoError(t, printMeasures(&buf, nil))
	assert.Equal(t, "no measures\n", buf.String())
}

func TestRunFlags(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rec.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"o1,o2,t3,t4,event_id\n,,,,1\n1,1,1,1,\n2,2,2,2,\n,,,,2\n3,3,3,3,\n4,4,4,4,\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", input, "-low", "0", "-high", "0", "-out", dir}, &stdout, &stderr)
	// The default -200 ms window does not fit this recording.
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no trials")

	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{"-method", "fir"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Path")

	assert.Equal(t, 2, run(context.Background(), []string{"-bogus"}, &stdout, &stderr))
}
