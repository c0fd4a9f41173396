package grading

import "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"

// NewGradeScale contains information needed to author one range of a tenant's scale.
type NewGradeScale struct {
	Grade       string  `json:"grade" validate:"notblank,max=8"`
	MinMarks    float64 `json:"min_marks" validate:"gte=0,lte=100"`
	MaxMarks    float64 `json:"max_marks" validate:"gte=0,lte=100,gtefield=MinMarks"`
	GradePoints float64 `json:"grade_points" validate:"gte=0"`
}

func (ngs *NewGradeScale) Clean() {
	ngs.Grade = core.CleanString(ngs.Grade)
}
