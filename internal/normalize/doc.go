// Package normalize converts loosely-structured tabular exports of
// balance-of-payments statistics into the canonical tidy record format.
//
// None of the source tables carry a machine-readable schema: titles,
// footnotes, and multi-row headers are interleaved with data, units are
// stated in free text, and years appear either as a column or as headers.
// Every stage is therefore a bounded heuristic over ambiguous text, and
// every stage degrades gracefully instead of failing:
//
//   - DetectHeaderRows locates the header/data boundary.
//   - BuildHeaders flattens the header block with carry-forward merging.
//   - IdentifyYearColumn / IdentifyNumericColumns classify columns.
//   - DetectUnitScale / DetectSide / DetectMetric read signals from free
//     text.
//   - Reshaper emits tidy records via the long or wide layout path.
//   - FlagOutliers annotates anomalous values with a MAD robust z-score.
//
// Normalizer ties the chain together per input file.
package normalize
