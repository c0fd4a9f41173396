package transcript

import (
	"strings"
	"time"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

type ResultStatus string

const (
	StatusPass    ResultStatus = "PASS"
	StatusFail    ResultStatus = "FAIL"
	StatusPending ResultStatus = "PENDING"
)

// Line is a subject's contribution to a transcript's CGPA.
type Line struct {
	SubjectID     string  `json:"subject_id"`
	ExamID        string  `json:"exam_id"`
	ExamSubjectID string  `json:"exam_subject_id"`
	Grade         string  `json:"grade"`
	GradePoints   float64 `json:"grade_points"`
	Credit        float64 `json:"credit"`
	IsPassed      bool    `json:"is_passed"`
}

// Transcript is a student's result for an academic year. Once published it is immutable
// until unpublished.
type Transcript struct {
	ID             string       `json:"id"`
	TenantID       string       `json:"-"`
	StudentID      string       `json:"student_id"`
	AcademicYearID string       `json:"academic_year_id"`
	CGPA           float64      `json:"cgpa"`
	TotalCredits   float64      `json:"total_credits"`
	ResultStatus   ResultStatus `json:"result_status"`
	Published      bool         `json:"published"`
	ApprovedBy     string       `json:"approved_by,omitempty"`
	PublishedAt    *time.Time   `json:"published_at"` // UTC
	Remarks        string       `json:"remarks"`
	Lines          []Line       `json:"lines"`
	GeneratedAt    time.Time    `json:"generated_at"` // UTC
}

// Publication holds what publishing sets on a transcript.
type Publication struct {
	ResultStatus ResultStatus
	Remarks      string
	ApprovedBy   string
	PublishedAt  time.Time
}

// PublishTranscript defines what may be provided when publishing. An empty status keeps the
// generated one.
type PublishTranscript struct {
	ResultStatus ResultStatus `json:"result_status" validate:"omitempty,resultstatus"`
	Remarks      string       `json:"remarks" validate:"max=1000"`
}

func (pt *PublishTranscript) Clean() {
	pt.ResultStatus = ResultStatus(strings.ToUpper(core.CleanString(string(pt.ResultStatus))))
	pt.Remarks = core.CleanString(pt.Remarks)
}

type QueryFilter struct {
	AcademicYearID string       `query:"academic_year_id"`
	StudentID      string       `query:"student_id"`
	Published      *bool        `query:"published"`
	ResultStatus   ResultStatus `query:"result_status"`
}

func (qf *QueryFilter) Clean() {
	qf.AcademicYearID = core.CleanString(qf.AcademicYearID)
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.ResultStatus = ResultStatus(strings.ToUpper(core.CleanString(string(qf.ResultStatus))))
}

// OrderingFields maps the fields transcripts can be ordered by to their columns.
var OrderingFields = map[string]string{
	"cgpa":         "cgpa",
	"student_id":   "student_id",
	"generated_at": "generated_at",
	"published_at": "published_at",
}
