package grading

import "fmt"

// Method enumerates the supported section-score aggregation methods.
type Method string

const (
	// MethodHighest takes the maximum of the column scores.
	MethodHighest Method = "HIGHEST"
	// MethodAverage takes the arithmetic mean of the column scores.
	MethodAverage Method = "AVERAGE"
	// MethodLatest takes the score of the column with the greatest ordinal,
	// i.e. the column added last. It does NOT mean the most recently edited
	// value.
	MethodLatest Method = "LATEST"
)

// ParseMethod validates a raw method string.
func ParseMethod(raw string) (Method, error) {
	switch Method(raw) {
	case MethodHighest, MethodAverage, MethodLatest:
		return Method(raw), nil
	}
	return "", fmt.Errorf("unknown aggregation method %q", raw)
}

// SectionScore collapses the column scores of one assessment type into a
// single section score. Scores must be ordered by column ordinal ascending;
// MethodLatest relies on that ordering. Returns 0 for an empty slice.
func SectionScore(method Method, scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	switch method {
	case MethodHighest:
		max := scores[0]
		for _, s := range scores[1:] {
			if s > max {
				max = s
			}
		}
		return max

	case MethodAverage:
		var sum float64
		for _, s := range scores {
			sum += s
		}
		return sum / float64(len(scores))

	case MethodLatest:
		return scores[len(scores)-1]
	}

	return 0
}
