package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"investviz/pkg/contracts/domain"
)

func dictionary() []domain.RegionEntry {
	return []domain.RegionEntry{
		{
			Canonical: "総計",
			AliasesJA: []string{"総計", "合計"},
			AliasesEN: []string{"Total"},
			Level:     domain.RegionLevelTotal,
		},
		{
			Canonical: "アジア",
			AliasesJA: []string{"アジア"},
			AliasesEN: []string{"Asia"},
			Level:     domain.RegionLevelRegion,
		},
		{
			Canonical: "ASEAN",
			AliasesJA: []string{"ＡＳＥＡＮ", "アセアン"},
			AliasesEN: []string{"ASEAN"},
			Level:     domain.RegionLevelGroup,
		},
		{
			Canonical: "中国",
			AliasesJA: []string{"中国"},
			AliasesEN: []string{"China"},
			Level:     domain.RegionLevelCountry,
		},
		{
			Canonical: "シンガポール",
			AliasesJA: []string{"シンガポール"},
			AliasesEN: []string{"Singapore"},
			Level:     domain.RegionLevelCountry,
		},
	}
}

func TestMatcherMatchText(t *testing.T) {
	m := NewMatcher(dictionary())

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "country beats region in the same text",
			text: "アジア・中国向け投資",
			want: "中国",
		},
		{
			name: "country beats group",
			text: "ASEAN シンガポール",
			want: "シンガポール",
		},
		{
			name: "region matched alone",
			text: "アジア計",
			want: "アジア",
		},
		{
			name: "english alias is case-insensitive",
			text: "investment into CHINA",
			want: "中国",
		},
		{
			name: "total level",
			text: "合計",
			want: "総計",
		},
		{
			name: "no match",
			text: "鉱業",
			want: "",
		},
		{
			name: "empty text",
			text: "  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MatchText(tt.text))
		})
	}
}

func TestMatcherMatchHeader(t *testing.T) {
	m := NewMatcher(dictionary())

	// Each merged-header segment is tried on its own, first hit wins.
	assert.Equal(t, "アジア", m.MatchHeader("アジア / 中国 / 株式"))
	assert.Equal(t, "中国", m.MatchHeader("株式 / 中国"))
	assert.Equal(t, "アジア", m.MatchHeader("アジア / 債券"))
	assert.Equal(t, "", m.MatchHeader("金額 / 株式"))
	assert.Equal(t, "", m.MatchHeader(""))
}

func TestMatcherLevel(t *testing.T) {
	m := NewMatcher(dictionary())

	level, ok := m.Level("中国")
	assert.True(t, ok)
	assert.Equal(t, domain.RegionLevelCountry, level)

	_, ok = m.Level("不明")
	assert.False(t, ok)
}
