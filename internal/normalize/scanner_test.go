package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAnnotationRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{name: "remark marker", row: []string{"（備考）統計の注意点", ""}, want: true},
		{name: "note prefix", row: []string{"注: 速報値を含む"}, want: true},
		{name: "circled digit", row: []string{"①本邦企業による投資"}, want: true},
		{name: "enumerated footnote", row: []string{"1) 四捨五入のため"}, want: true},
		{name: "plain label", row: []string{"アジア", "1,234"}, want: false},
		{name: "empty row", row: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnnotationRow(tt.row))
		})
	}
}

func TestIsTitleRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{
			name: "sparse title with unit note",
			row:  []string{"Ⅰ 直接投資（単位：億円）", "", "", "", ""},
			want: true,
		},
		{
			name: "dense row with keyword is not a title",
			row:  []string{"統計", "a", "b", "c"},
			want: false,
		},
		{
			name: "sparse row without keyword",
			row:  []string{"something", "", "", "", ""},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTitleRow(tt.row))
		})
	}
}

func TestDetectHeaderRows(t *testing.T) {
	tests := []struct {
		name   string
		matrix [][]string
		want   int
	}{
		{
			name: "title then header then data",
			matrix: [][]string{
				{"Ⅰ 国際収支統計（単位：億円）", "", "", "", ""},
				{"地域", "2020年", "2021年", "2022年", ""},
				{"アジア", "1,234", "(56)", "789", ""},
				{"北米", "2,345", "678", "901", ""},
			},
			want: 2,
		},
		{
			name: "era marker ends the header block",
			matrix: [][]string{
				{"項目", "資産", "負債"},
				{"", "株式", "債券"},
				{"C.Y.2020", "100", "200"},
			},
			want: 2,
		},
		{
			name: "no recognizable data row falls back to one header",
			matrix: [][]string{
				{"地域", "項目"},
				{"メモ", "ラベル"},
				{"注記", "テキスト"},
			},
			want: 1,
		},
		{
			name: "empty run separates preamble from header",
			matrix: [][]string{
				{"filter: all regions", "", "", ""},
				{"", "", "", ""},
				{"地域", "2020", "2021", "2022"},
				{"アジア", "10", "20", "30"},
			},
			want: 3,
		},
		{
			name:   "tiny matrix",
			matrix: [][]string{{"only row"}},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectHeaderRows(tt.matrix))
		})
	}
}

func TestIsDataRow_LabelOnlyYearMarker(t *testing.T) {
	// A year-era marker alone does not make a data row when the cell is a
	// periodicity label.
	assert.False(t, isDataRow([]string{"C.Y.（暦年）", "", ""}))
	assert.True(t, isDataRow([]string{"C.Y.2020", "", ""}))
}
