package exam

import (
	"time"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

type Exam struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"-"`
	Name           string    `json:"name"`
	AcademicYearID string    `json:"academic_year_id"`
	StartDate      time.Time `json:"start_date"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// ExamClass is a class assessed by an exam.
type ExamClass struct {
	ID       string `json:"id"`
	TenantID string `json:"-"`
	ExamID   string `json:"exam_id"`
	ClassID  string `json:"class_id"`
}

// ExamSubject is a subject a class is assessed on within an exam.
type ExamSubject struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"-"`
	ExamClassID string    `json:"exam_class_id"`
	SubjectID   string    `json:"subject_id"`
	MaxMarks    float64   `json:"max_marks"`
	PassMarks   float64   `json:"pass_marks"`
	ExamDate    time.Time `json:"exam_date"`
	EvaluatorID string    `json:"evaluator_id,omitempty"`
}

// NewExam contains information needed to create a new Exam.
type NewExam struct {
	Name           string    `json:"name" validate:"notblank,max=100"`
	AcademicYearID string    `json:"academic_year_id" validate:"notblank"`
	StartDate      time.Time `json:"start_date" validate:"required"`
}

func (ne *NewExam) Clean() {
	ne.Name = core.CleanString(ne.Name)
	ne.AcademicYearID = core.CleanString(ne.AcademicYearID)
}

type NewExamClass struct {
	ClassID string `json:"class_id" validate:"notblank"`
}

// NewExamSubject contains information needed to add a subject to an ExamClass.
type NewExamSubject struct {
	SubjectID   string    `json:"subject_id" validate:"notblank"`
	MaxMarks    float64   `json:"max_marks" validate:"gt=0,decimals"`
	PassMarks   float64   `json:"pass_marks" validate:"gte=0,ltefield=MaxMarks,decimals"`
	ExamDate    time.Time `json:"exam_date"`
	EvaluatorID string    `json:"evaluator_id"`
}

func (ns *NewExamSubject) Clean() {
	ns.SubjectID = core.CleanString(ns.SubjectID)
	ns.EvaluatorID = core.CleanString(ns.EvaluatorID)
}

type QueryFilter struct {
	AcademicYearID string    `query:"academic_year_id"`
	StartFrom      time.Time `query:"start_from"`
	StartTo        time.Time `query:"start_to"`
}

func (qf *QueryFilter) Clean() {
	qf.AcademicYearID = core.CleanString(qf.AcademicYearID)
}
