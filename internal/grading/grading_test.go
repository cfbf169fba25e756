package grading

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func TestSectionScore(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		scores []float64
		want   float64
	}{
		{"highest picks max", MethodHighest, []float64{8.0, 9.0, 7.5}, 9.0},
		{"highest single", MethodHighest, []float64{4.2}, 4.2},
		{"average is mean", MethodAverage, []float64{6.0, 8.0}, 7.0},
		{"average single", MethodAverage, []float64{8.5}, 8.5},
		{"latest picks last by ordinal", MethodLatest, []float64{7.0, 9.0}, 9.0},
		{"latest single", MethodLatest, []float64{4.0}, 4.0},
		{"empty yields zero", MethodHighest, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SectionScore(tt.method, tt.scores)
			if got != tt.want {
				t.Errorf("SectionScore(%s, %v) = %v, want %v", tt.method, tt.scores, got, tt.want)
			}
		})
	}
}

func TestLatestIgnoresEditOrder(t *testing.T) {
	// Scores arrive ordered by column ordinal. Even if the ordinal-1 column
	// was edited more recently in wall-clock time, LATEST must still select
	// the ordinal-2 column's value.
	scores := []float64{7.0, 9.0} // ordinal 1 (edited last), ordinal 2
	if got := SectionScore(MethodLatest, scores); got != 9.0 {
		t.Errorf("LATEST selected %v, want 9.0 (highest ordinal)", got)
	}
}

func TestParseMethod(t *testing.T) {
	for _, raw := range []string{"HIGHEST", "AVERAGE", "LATEST"} {
		if _, err := ParseMethod(raw); err != nil {
			t.Errorf("ParseMethod(%q) returned error: %v", raw, err)
		}
	}
	if _, err := ParseMethod("MEDIAN"); err == nil {
		t.Error("ParseMethod(\"MEDIAN\") should fail")
	}
	if _, err := ParseMethod("latest"); err == nil {
		t.Error("ParseMethod is case-sensitive; \"latest\" should fail")
	}
}

func TestValidScore(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  bool
	}{
		{"nil clears the entry", nil, true},
		{"lower bound", ptr(0), true},
		{"upper bound", ptr(10), true},
		{"mid range", ptr(7.25), true},
		{"negative", ptr(-0.1), false},
		{"above max", ptr(10.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidScore(tt.score); got != tt.want {
				t.Errorf("ValidScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreChanged(t *testing.T) {
	tests := []struct {
		name     string
		old, new *float64
		want     bool
	}{
		{"both nil is a no-op", nil, nil, false},
		{"same value is a no-op", ptr(7.5), ptr(7.5), false},
		{"nil to value", nil, ptr(5.0), true},
		{"value to nil", ptr(5.0), nil, true},
		{"different values", ptr(5.0), ptr(5.5), true},
		{"zero to nil", ptr(0), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreChanged(tt.old, tt.new); got != tt.want {
				t.Errorf("ScoreChanged = %v, want %v", got, tt.want)
			}
		})
	}
}

// buildColumns creates n columns for typeID with ordinals 1..n.
func buildColumns(typeID, n int) []Column {
	cols := make([]Column, 0, n)
	for i := 1; i <= n; i++ {
		cols = append(cols, Column{ID: uuid.New(), TypeID: typeID, Ordinal: i})
	}
	return cols
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeFinalWeightedSum(t *testing.T) {
	// Quiz 0.30/HIGHEST [8.0, 9.0], Midterm 0.50/LATEST [7.0],
	// Final 0.20/AVERAGE [8.50] => 9.0*0.30 + 7.0*0.50 + 8.50*0.20 = 7.90
	const (
		quiz    = 1
		midterm = 2
		final   = 3
	)

	quizCols := buildColumns(quiz, 2)
	midCols := buildColumns(midterm, 1)
	finCols := buildColumns(final, 1)

	columns := append(append(append([]Column{}, quizCols...), midCols...), finCols...)
	scores := map[uuid.UUID]*float64{
		quizCols[0].ID: ptr(8.0),
		quizCols[1].ID: ptr(9.0),
		midCols[0].ID:  ptr(7.0),
		finCols[0].ID:  ptr(8.50),
	}
	weights := map[int]Weight{
		quiz:    {Fraction: 0.30, Method: MethodHighest},
		midterm: {Fraction: 0.50, Method: MethodLatest},
		final:   {Fraction: 0.20, Method: MethodAverage},
	}

	out := ComputeFinal(columns, scores, weights, ptr(6.0))

	if out.FinalScore == nil {
		t.Fatal("FinalScore is nil, want 7.90")
	}
	if !almostEqual(*out.FinalScore, 7.90) {
		t.Errorf("FinalScore = %v, want 7.90", *out.FinalScore)
	}
	if !out.Passed {
		t.Error("Passed = false, want true (7.90 >= 6.0)")
	}
	if len(out.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(out.Sections))
	}
	// Sections keep first-seen assessment type order.
	wantOrder := []int{quiz, midterm, final}
	for i, sec := range out.Sections {
		if sec.TypeID != wantOrder[i] {
			t.Errorf("section %d type = %d, want %d", i, sec.TypeID, wantOrder[i])
		}
	}
	if !almostEqual(out.Sections[0].Weighted, 2.70) {
		t.Errorf("quiz weighted = %v, want 2.70", out.Sections[0].Weighted)
	}
}

func TestComputeFinalNullBlocksFinal(t *testing.T) {
	cols := buildColumns(1, 3)
	scores := map[uuid.UUID]*float64{
		cols[0].ID: ptr(9.0),
		cols[1].ID: nil, // ungraded
		cols[2].ID: ptr(10.0),
	}
	weights := map[int]Weight{1: {Fraction: 1.0, Method: MethodHighest}}

	out := ComputeFinal(cols, scores, weights, ptr(1.0))
	if out.FinalScore != nil {
		t.Errorf("FinalScore = %v, want nil (one entry is null)", *out.FinalScore)
	}
	if out.Passed {
		t.Error("Passed = true, want false")
	}
	if out.Sections != nil {
		t.Error("Sections should be empty when computation stops early")
	}
}

func TestComputeFinalMissingEntryRowBlocksFinal(t *testing.T) {
	cols := buildColumns(1, 2)
	// Only one row materialized; the other column has no entry at all.
	scores := map[uuid.UUID]*float64{cols[0].ID: ptr(8.0)}
	weights := map[int]Weight{1: {Fraction: 1.0, Method: MethodAverage}}

	out := ComputeFinal(cols, scores, weights, ptr(5.0))
	if out.FinalScore != nil {
		t.Error("missing entry row must count as null and block the final score")
	}
}

func TestComputeFinalMissingWeightContributesZero(t *testing.T) {
	const weighted, orphan = 1, 2

	wCols := buildColumns(weighted, 1)
	oCols := buildColumns(orphan, 1)
	columns := append(append([]Column{}, wCols...), oCols...)

	scores := map[uuid.UUID]*float64{
		wCols[0].ID: ptr(8.0),
		oCols[0].ID: ptr(10.0),
	}
	weights := map[int]Weight{weighted: {Fraction: 0.5, Method: MethodHighest}}

	out := ComputeFinal(columns, scores, weights, ptr(3.0))
	if out.FinalScore == nil {
		t.Fatal("FinalScore is nil, want 4.0")
	}
	if !almostEqual(*out.FinalScore, 4.0) {
		t.Errorf("FinalScore = %v, want 4.0 (orphan type contributes 0)", *out.FinalScore)
	}
	if len(out.MissingWeightTypes) != 1 || out.MissingWeightTypes[0] != orphan {
		t.Errorf("MissingWeightTypes = %v, want [%d]", out.MissingWeightTypes, orphan)
	}
	if out.Passed != true {
		t.Error("Passed = false, want true (4.0 >= 3.0)")
	}
}

func TestComputeFinalUnsetThresholdNeverPasses(t *testing.T) {
	cols := buildColumns(1, 1)
	scores := map[uuid.UUID]*float64{cols[0].ID: ptr(10.0)}
	weights := map[int]Weight{1: {Fraction: 1.0, Method: MethodHighest}}

	out := ComputeFinal(cols, scores, weights, nil)
	if out.FinalScore == nil || *out.FinalScore != 10.0 {
		t.Fatal("FinalScore should still be computed without a threshold")
	}
	if out.Passed {
		t.Error("Passed = true, want false when the course threshold is unset")
	}
}

func TestComputeFinalEndToEndScenario(t *testing.T) {
	// Course minGpaToPass = 6.0. Quiz 0.30/HIGHEST [5.5, 4.8] -> 1.65,
	// Midterm 0.50/LATEST [4.0] -> 2.00, Final 0.20/AVERAGE [5.75] -> 1.15.
	// finalScore = 4.80, passed = false.
	const (
		quiz    = 10
		midterm = 20
		final   = 30
	)

	quizCols := buildColumns(quiz, 2)
	midCols := buildColumns(midterm, 1)
	finCols := buildColumns(final, 1)
	columns := append(append(append([]Column{}, quizCols...), midCols...), finCols...)

	scores := map[uuid.UUID]*float64{
		quizCols[0].ID: ptr(5.5),
		quizCols[1].ID: ptr(4.8),
		midCols[0].ID:  ptr(4.0),
		finCols[0].ID:  ptr(5.75),
	}
	weights := map[int]Weight{
		quiz:    {Fraction: 0.30, Method: MethodHighest},
		midterm: {Fraction: 0.50, Method: MethodLatest},
		final:   {Fraction: 0.20, Method: MethodAverage},
	}

	out := ComputeFinal(columns, scores, weights, ptr(6.0))
	if out.FinalScore == nil {
		t.Fatal("FinalScore is nil, want 4.80")
	}
	if !almostEqual(*out.FinalScore, 4.80) {
		t.Errorf("FinalScore = %v, want 4.80", *out.FinalScore)
	}
	if out.Passed {
		t.Error("Passed = true, want false (4.80 < 6.0)")
	}
}

func TestComputeFinalNoColumns(t *testing.T) {
	out := ComputeFinal(nil, nil, nil, ptr(6.0))
	if out.FinalScore == nil || *out.FinalScore != 0 {
		t.Error("no active columns should yield a zero final score")
	}
	if out.Passed {
		t.Error("zero final should not pass a 6.0 threshold")
	}
}
