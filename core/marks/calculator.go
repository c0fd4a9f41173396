package marks

import (
	"fmt"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
)

// SubjectResult is the outcome of one student's marks in one exam subject.
type SubjectResult struct {
	MarksID       string  `json:"marks_id,omitempty"`
	ExamSubjectID string  `json:"exam_subject_id"`
	SubjectID     string  `json:"subject_id"`
	StudentID     string  `json:"student_id"`
	MarksObtained float64 `json:"marks_obtained"`
	MaxMarks      float64 `json:"max_marks"`
	PassMarks     float64 `json:"pass_marks"`
	Percentage    float64 `json:"percentage"`
	GradeScaleID  string  `json:"grade_scale_id"`
	Grade         string  `json:"grade"`
	GradePoints   float64 `json:"grade_points"`
	IsPassed      bool    `json:"is_passed"`
}

// Calculator turns raw marks into subject results.
type Calculator struct {
	scale     *grading.Scale
	precision int
}

func NewCalculator(scale *grading.Scale, precision int) Calculator {
	return Calculator{scale: scale, precision: precision}
}

// CheckRange fails with an error of kind core.ErrInvalidMarks when marks fall outside [0, es.MaxMarks]
// or carry more decimal places than are stored.
func CheckRange(marksObtained float64, es exam.ExamSubject) error {
	if es.MaxMarks <= 0 {
		return core.NewError(core.ErrInvalidMarks, "exam subject has no max marks")
	}
	if marksObtained < 0 || marksObtained > es.MaxMarks {
		return core.NewError(core.ErrInvalidMarks, fmt.Sprintf("marks must be between 0 and %g", es.MaxMarks))
	}
	if !core.HasDecimals(marksObtained, core.StoredDecimals) {
		return core.NewError(core.ErrInvalidMarks, fmt.Sprintf("marks take at most %d decimal places", core.StoredDecimals))
	}
	return nil
}

// Calculate grades marksObtained out of es.MaxMarks. Pass/fail only depends on es.PassMarks,
// never on the grade.
func (c Calculator) Calculate(studentID string, marksObtained float64, es exam.ExamSubject) (SubjectResult, error) {
	if err := CheckRange(marksObtained, es); err != nil {
		return SubjectResult{}, err
	}

	pct := grading.Percentage(marksObtained, es.MaxMarks, c.precision)
	grade, err := c.scale.Resolve(pct)
	if err != nil {
		return SubjectResult{}, err
	}
	return SubjectResult{
		ExamSubjectID: es.ID,
		SubjectID:     es.SubjectID,
		StudentID:     studentID,
		MarksObtained: marksObtained,
		MaxMarks:      es.MaxMarks,
		PassMarks:     es.PassMarks,
		Percentage:    pct,
		GradeScaleID:  grade.ScaleID,
		Grade:         grade.Label,
		GradePoints:   grade.Points,
		IsPassed:      marksObtained >= es.PassMarks,
	}, nil
}

// CalculateMarks grades stored marks.
func (c Calculator) CalculateMarks(sm StudentMarks, es exam.ExamSubject) (SubjectResult, error) {
	res, err := c.Calculate(sm.StudentID, sm.MarksObtained, es)
	if err != nil {
		return SubjectResult{}, err
	}
	res.MarksID = sm.ID
	return res, nil
}
