package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	err := WriteSimpleCSV(path, []string{"year", "value"}, [][]string{
		{"2020", "100"},
		{"2021", "値,カンマ入り"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3], "BOM prefix for Excel")
	assert.Equal(t, "year,value\n2020,100\n2021,\"値,カンマ入り\"\n", string(data[3:]))
}

func TestWriteCSV_NoHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := WriteCSV(path, WriteOptions{Records: [][]string{{"1", "2"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n", string(data))
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	headers := []string{"年度", "金額"}
	records := [][]string{{"2020", "1000"}, {"2021", "-500"}}

	require.NoError(t, WriteSimpleCSV(path, headers, records))

	matrix, meta, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, "utf-8-sig", meta.Encoding)
	require.Len(t, matrix, 3)
	assert.Equal(t, headers, matrix[0])
	assert.Equal(t, records[0], matrix[1])
	assert.Equal(t, records[1], matrix[2])
}
