package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"investviz/pkg/contracts/domain"
)

func TestDetectUnitScale(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  float64
	}{
		{name: "million yen", texts: []string{"対外直接投資（百万円）"}, want: 0.01},
		{name: "hundred million yen", texts: []string{"単位：億円"}, want: 1.0},
		{name: "trillion yen", texts: []string{"兆円"}, want: 10000.0},
		{name: "billion yen english", texts: []string{"inward FDI (billion yen)"}, want: 10.0},
		{name: "ten million yen", texts: []string{"千万円"}, want: 0.1},
		{name: "ten thousand yen", texts: []string{"万円"}, want: 0.0001},
		{name: "unit in file name only", texts: []string{"地域", "fdi_百万円.csv"}, want: 0.01},
		{name: "no unit defaults to one", texts: []string{"地域", "金額"}, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, scale := DetectUnitScale(tt.texts)
			assert.InDelta(t, tt.want, scale, 1e-12)
			if tt.want == 1.0 && tt.name == "no unit defaults to one" {
				assert.Empty(t, pattern)
			} else {
				assert.NotEmpty(t, pattern)
			}
		})
	}
}

func TestDetectSide(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  domain.Side
	}{
		{name: "outward japanese", texts: []string{"対外直接投資"}, want: domain.SideAssets},
		{name: "inward japanese", texts: []string{"対内直接投資"}, want: domain.SideLiabilities},
		{name: "assets english", texts: []string{"Direct investment ASSETS"}, want: domain.SideAssets},
		{name: "liabilities english", texts: []string{"liabilities by region"}, want: domain.SideLiabilities},
		{name: "unmatched", texts: []string{"地域別内訳"}, want: domain.SideUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSide(tt.texts))
		})
	}
}

func TestDetectMetric(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  domain.Metric
	}{
		{name: "reinvested beats net", texts: []string{"再投資収益（ネット）"}, want: domain.MetricReinvested},
		{name: "net japanese", texts: []string{"ネット"}, want: domain.MetricNet},
		{name: "flow english", texts: []string{"FDI flow by country"}, want: domain.MetricFlow},
		{name: "unmatched", texts: []string{"残高"}, want: domain.MetricUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMetric(tt.texts))
		})
	}
}
