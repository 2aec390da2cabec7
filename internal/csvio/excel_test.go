package csvio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadExcelMatrix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "年度"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "金額"))
	require.NoError(t, f.SetCellValue(sheet, "A2", 2020))
	require.NoError(t, f.SetCellValue(sheet, "B2", 1000))

	// A second, sparser sheet must not win sheet selection.
	_, err := f.NewSheet("memo")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("memo", "A1", "note"))

	require.NoError(t, f.SaveAs(path))

	matrix, meta, err := ReadExcelMatrix(path)

	require.NoError(t, err)
	assert.Equal(t, "xlsx", meta.Encoding)
	require.Len(t, matrix, 2)
	assert.Equal(t, []string{"年度", "金額"}, matrix[0])
	assert.Equal(t, []string{"2020", "1000"}, matrix[1])
}

func TestReadAnyMatrix_Dispatch(t *testing.T) {
	path := writeTempFile(t, "plain.csv", []byte("a,b\n1,2\n"))

	matrix, meta, err := ReadAnyMatrix(path)

	require.NoError(t, err)
	assert.Equal(t, ",", meta.Delimiter)
	assert.Len(t, matrix, 2)
}

func TestReadExcelMatrix_MissingFile(t *testing.T) {
	_, _, err := ReadExcelMatrix(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
