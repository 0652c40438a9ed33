package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/internal/config"
)

func setupPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{
		BaseDir:    dir,
		DataDir:    filepath.Join(dir, "data"),
		ReportsDir: filepath.Join(dir, "reports"),
		LogsDir:    filepath.Join(dir, "logs"),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "file starts with a BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	paths := setupPaths(t)
	w := NewCSVWriter(paths, nil)

	tests := []struct {
		name    string
		path    string
		headers []string
		records [][]string
		want    string
	}{
		{
			name:    "relative path goes to reports dir",
			path:    "daily.csv",
			headers: []string{"DATE", "VERSEMENT"},
			records: [][]string{{"2025-12-01", "150.00"}},
			want:    filepath.Join(paths.ReportsDir, "daily.csv"),
		},
		{
			name:    "nested relative path",
			path:    "2025/agents.csv",
			headers: []string{"LIVREUR"},
			records: [][]string{{"AMINE"}, {"RÉDA, fils"}},
			want:    filepath.Join(paths.ReportsDir, "2025", "agents.csv"),
		},
		{
			name:    "absolute path kept",
			path:    filepath.Join(paths.BaseDir, "out", "x.csv"),
			headers: []string{"A"},
			want:    filepath.Join(paths.BaseDir, "out", "x.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, w.WriteSimpleCSV(tt.path, tt.headers, tt.records))
			got := readCSV(t, tt.want)
			assert.Equal(t, append([][]string{tt.headers}, tt.records...), got)
		})
	}
}

func TestEncodeCSV_NoBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, WriteOptions{Headers: []string{"A"}, Records: [][]string{{"1"}}}))
	assert.Equal(t, "A\n1\n", buf.String())
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	paths := setupPaths(t)
	w := NewCSVWriter(paths, nil)

	stream, err := w.CreateStreamWriter("stream.csv", []string{"LIVREUR", "RETOUR"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"AMINE", "10.00"}, {"REDA", "5.00"}} {
		require.NoError(t, stream.WriteRecord(rec))
	}
	require.NoError(t, stream.Close())

	got := readCSV(t, paths.GetReportPath("stream.csv"))
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"REDA", "5.00"}, got[2])
}
