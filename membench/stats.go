package membench

import "sort"

// Summary aggregates one metric (GB/s or ns/access) across repeated benchmark loops.
type Summary struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	P50  float64
	P95  float64
	P99  float64
}

// Summarize computes a Summary over xs, dropping non-positive entries first: the launcher's "no work
// performed" sentinel is 0, and folding it in would read as zero bandwidth rather than as a skipped
// measurement. An empty or all-sentinel input yields the zero Summary (N == 0).
func Summarize(xs []float64) Summary {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return Summary{}
	}
	sort.Float64s(vals)
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return Summary{
		N:    len(vals),
		Min:  vals[0],
		Max:  vals[len(vals)-1],
		Mean: sum / float64(len(vals)),
		P50:  pctile(vals, 0.50),
		P95:  pctile(vals, 0.95),
		P99:  pctile(vals, 0.99),
	}
}

// pctile picks the pct-th percentile out of an already-sorted slice by index, no interpolation.
func pctile(sorted []float64, pct float64) float64 {
	return sorted[int(float64(len(sorted)-1)*pct)]
}
