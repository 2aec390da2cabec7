package normalize

import (
	"math"
	"sort"

	"investviz/pkg/contracts/domain"
)

const (
	// minOutlierSample is the smallest per-measure observation count worth
	// testing; below it the MAD is too unstable to trust.
	minOutlierSample = 8
	// robustZConstant is the Iglewicz-Hoaglin scaling constant relating
	// MAD to the standard deviation of a normal distribution.
	robustZConstant = 0.6745
	// outlierThreshold is the robust z-score magnitude that flags a value.
	outlierThreshold = 3.5
	// madEpsilon substitutes a zero MAD to avoid division by zero.
	madEpsilon = 1e-9
)

// FlagOutliers annotates statistically anomalous values per measure using
// the MAD-based robust z-score. Values are never removed or altered; a
// flagged record gets flag_outlier set and "outlier" appended to qa_flag.
func FlagOutliers(records []domain.TidyRecord) {
	byMeasure := make(map[string][]int)
	for i, r := range records {
		byMeasure[r.Measure] = append(byMeasure[r.Measure], i)
	}

	flag := true
	for _, indices := range byMeasure {
		if len(indices) < minOutlierSample {
			continue
		}

		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = records[idx].Value100mYen
		}

		med := median(values)
		absDev := make([]float64, len(values))
		for i, v := range values {
			absDev[i] = math.Abs(v - med)
		}
		mad := median(absDev)
		if mad == 0 {
			mad = madEpsilon
		}

		for i, idx := range indices {
			z := robustZConstant * (values[i] - med) / mad
			if math.Abs(z) >= outlierThreshold {
				records[idx].FlagOutlier = &flag
				records[idx].AppendQAFlag("outlier")
			}
		}
	}
}

// median returns the midpoint of the sorted values, averaging the two
// central elements for even counts. The input is not modified.
func median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	n := len(s)
	return 0.5 * (s[n/2] + s[(n-1)/2])
}
