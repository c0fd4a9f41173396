package marks

import (
	"time"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

// StudentMarks is one student's raw score for one exam subject.
// GradeScaleID and Grade cache the grade resolved when the marks were last written or regraded.
type StudentMarks struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"-"`
	ExamSubjectID string    `json:"exam_subject_id"`
	StudentID     string    `json:"student_id"`
	MarksObtained float64   `json:"marks_obtained"`
	GradeScaleID  string    `json:"grade_scale_id"`
	Grade         string    `json:"grade"`
	EnteredBy     string    `json:"entered_by"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// Entry is one student's marks, as entered.
type Entry struct {
	StudentID     string  `json:"student_id" validate:"notblank"`
	MarksObtained float64 `json:"marks_obtained"`
}

func (e *Entry) Clean() {
	e.StudentID = core.CleanString(e.StudentID)
}

type UpdateMarks struct {
	MarksObtained float64 `json:"marks_obtained"`
}

type QueryFilter struct {
	ExamSubjectIDs []string
	StudentID      string
}
