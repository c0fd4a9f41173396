package grading

import (
	"fmt"
	"math"
	"sort"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

var (
	// errors
	ErrScaleNotFound = core.NewError(core.ErrNotFound, "grade scale not found")
	ErrInvalidScale  = core.NewError(core.ErrInvalidMarks, "invalid grade scale")
)

// GradeScale maps an inclusive range of the normalized 0-100 scale to a grade.
type GradeScale struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"-"`
	Grade       string  `json:"grade"`
	MinMarks    float64 `json:"min_marks"`
	MaxMarks    float64 `json:"max_marks"`
	GradePoints float64 `json:"grade_points"`
}

func (gs GradeScale) covers(score float64) bool {
	return score >= gs.MinMarks && score <= gs.MaxMarks
}

// Grade is the outcome of resolving a score.
type Grade struct {
	ScaleID string  `json:"grade_scale_id"`
	Label   string  `json:"grade"`
	Points  float64 `json:"grade_points"`
}

// Gap is an interval of the 0-100 scale no range covers.
type Gap struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Scale is a tenant's set of grade ranges, sorted by MinMarks and free of overlaps.
type Scale struct {
	ranges []GradeScale
}

// NewScale sorts and checks the given ranges. Malformed or overlapping ranges are reported
// together in a ValidationError of kind core.ErrInvalidMarks.
func NewScale(ranges []GradeScale) (*Scale, error) {
	sorted := make([]GradeScale, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinMarks < sorted[j].MinMarks })

	var flds []core.FieldError
	for i, gs := range sorted {
		field := fmt.Sprintf("ranges[%s]", gs.Grade)
		switch {
		case core.CleanString(gs.Grade) == "":
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("ranges[%d]", i), Error: "grade cannot be blank"})
		case gs.MinMarks < MinScore || gs.MaxMarks > MaxScore:
			flds = append(flds, core.FieldError{Field: field, Error: "bounds must be within [0, 100]"})
		case gs.MinMarks > gs.MaxMarks:
			flds = append(flds, core.FieldError{Field: field, Error: "min_marks cannot be greater than max_marks"})
		case gs.GradePoints < 0:
			flds = append(flds, core.FieldError{Field: field, Error: "grade_points cannot be negative"})
		case !core.HasDecimals(gs.MinMarks, core.StoredDecimals),
			!core.HasDecimals(gs.MaxMarks, core.StoredDecimals),
			!core.HasDecimals(gs.GradePoints, core.StoredDecimals):
			flds = append(flds, core.FieldError{
				Field: field,
				Error: fmt.Sprintf("bounds and grade_points take at most %d decimal places", core.StoredDecimals),
			})
		}
		if i > 0 && gs.MinMarks <= sorted[i-1].MaxMarks {
			flds = append(flds, core.FieldError{
				Field: field,
				Error: fmt.Sprintf("overlaps with grade %s", sorted[i-1].Grade),
			})
		}
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(ErrInvalidScale, flds...)
	}
	return &Scale{ranges: sorted}, nil
}

// Ranges returns a copy of the scale's ranges, sorted by MinMarks.
func (s *Scale) Ranges() []GradeScale {
	ranges := make([]GradeScale, len(s.ranges))
	copy(ranges, s.ranges)
	return ranges
}

func (s *Scale) IsEmpty() bool { return len(s.ranges) == 0 }

// Resolve returns the unique grade whose range contains score.
func (s *Scale) Resolve(score float64) (Grade, error) {
	// last range starting at or below score
	idx := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].MinMarks > score }) - 1
	if idx < 0 || !s.ranges[idx].covers(score) {
		return Grade{}, core.NewError(core.ErrNoMatchingGrade, fmt.Sprintf("no grade scale range covers %g", score))
	}
	gs := s.ranges[idx]
	return Grade{ScaleID: gs.ID, Label: gs.Grade, Points: gs.GradePoints}, nil
}

// Gaps lists the intervals of [0, 100] a score rounded to precision decimals can fall in
// without any range covering it.
func (s *Scale) Gaps(precision int) []Gap {
	step := math.Pow10(-precision)
	var gaps []Gap
	add := func(from, to float64) {
		from, to = Round(from, precision), Round(to, precision)
		if from <= to {
			gaps = append(gaps, Gap{From: from, To: to})
		}
	}

	if len(s.ranges) == 0 {
		add(MinScore, MaxScore)
		return gaps
	}
	if first := s.ranges[0]; first.MinMarks > MinScore {
		add(MinScore, first.MinMarks-step)
	}
	for i := 1; i < len(s.ranges); i++ {
		add(s.ranges[i-1].MaxMarks+step, s.ranges[i].MinMarks-step)
	}
	if last := s.ranges[len(s.ranges)-1]; last.MaxMarks < MaxScore {
		add(last.MaxMarks+step, MaxScore)
	}
	return gaps
}

// MinPoints returns the lowest grade points of the scale.
func (s *Scale) MinPoints() float64 {
	if len(s.ranges) == 0 {
		return 0
	}
	min := s.ranges[0].GradePoints
	for _, gs := range s.ranges[1:] {
		if gs.GradePoints < min {
			min = gs.GradePoints
		}
	}
	return min
}

// MaxPoints returns the highest grade points of the scale.
func (s *Scale) MaxPoints() float64 {
	var max float64
	for _, gs := range s.ranges {
		if gs.GradePoints > max {
			max = gs.GradePoints
		}
	}
	return max
}

// Round rounds x half-up to places decimals. x is expected to be non-negative.
func Round(x float64, places int) float64 {
	p := math.Pow10(places)
	// the epsilon absorbs binary representation errors such as 1.005*100 = 100.49999...
	return math.Floor(x*p+0.5+1e-9) / p
}

// Percentage returns obtained/total*100 rounded to precision decimals, 0 when total is 0.
func Percentage(obtained, total float64, precision int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(obtained/total*100, precision)
}
