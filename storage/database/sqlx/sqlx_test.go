package sqlxrepos

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

func TestTrapErrors(t *testing.T) {
	notFound := errors.New("not found")
	conflict := errors.New("conflict")
	other := errors.New("other")

	assert.Equal(t, notFound, trapNoRowsErr(errors.Wrap(sql.ErrNoRows, "selecting"), notFound))
	assert.Equal(t, other, trapNoRowsErr(other, notFound))
	badID := errors.Wrap(&pq.Error{Code: "22P02"}, "selecting")
	assert.Equal(t, notFound, trapNoRowsErr(badID, notFound))
	fk := &pq.Error{Code: "23503"}
	assert.Equal(t, error(fk), trapNoRowsErr(fk, notFound))

	dup := errors.Wrap(&pq.Error{Code: "23505"}, "inserting")
	assert.Equal(t, conflict, trapUniqueErr(dup, conflict))
	assert.Equal(t, error(fk), trapUniqueErr(fk, conflict))
}

func TestExamSubjectRow(t *testing.T) {
	es := exam.ExamSubject{ID: "1", TenantID: "t", ExamClassID: "ec", SubjectID: "maths", MaxMarks: 100, PassMarks: 40}
	r := subjectRow(es)
	assert.False(t, r.ExamDate.Valid)
	assert.False(t, r.EvaluatorID.Valid)
	assert.Equal(t, es, r.unrow())

	es.ExamDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	es.EvaluatorID = "teacher-1"
	r = subjectRow(es)
	assert.True(t, r.ExamDate.Valid)
	assert.Equal(t, es, r.unrow())
}

func TestMarksRow(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sm := marks.StudentMarks{
		ID: "1", TenantID: "t", ExamSubjectID: "es", StudentID: "s1", MarksObtained: 82,
		GradeScaleID: "b", Grade: "B", EnteredBy: "admin", CreatedAt: now, UpdatedAt: now,
	}
	assert.Equal(t, sm, toMarksRow(sm).unrow())

	sm.GradeScaleID, sm.EnteredBy = "", ""
	r := toMarksRow(sm)
	assert.False(t, r.GradeScaleID.Valid)
	assert.False(t, r.EnteredBy.Valid)
}

func TestTranscriptRow(t *testing.T) {
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	tr := transcript.Transcript{
		ID:             "1",
		TenantID:       "t",
		StudentID:      "s1",
		AcademicYearID: "2024",
		CGPA:           7.14,
		TotalCredits:   7,
		ResultStatus:   transcript.StatusPass,
		Published:      true,
		ApprovedBy:     "admin",
		PublishedAt:    &now,
		Remarks:        "ok",
		Lines: []transcript.Line{
			{SubjectID: "maths", ExamID: "ex", ExamSubjectID: "es", Grade: "B", GradePoints: 8, Credit: 4, IsPassed: true},
		},
		GeneratedAt: now,
	}
	r, err := toTranscriptRow(tr)
	require.NoError(t, err)
	got, err := r.unrow()
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	draft := transcript.Transcript{ID: "2", ResultStatus: transcript.StatusPending, GeneratedAt: now}
	r, err = toTranscriptRow(draft)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(r.Lines.JSON))
	assert.False(t, r.PublishedAt.Valid)
	got, err = r.unrow()
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Nil(t, got.PublishedAt)
}
