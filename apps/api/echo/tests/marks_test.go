package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/tests"
)

func Test_marksApi_record(t *testing.T) {
	f := setup(t)
	path := "/v1/exam-subjects/" + f.maths.ID + "/marks"

	tests := []struct {
		name      string
		token     string
		entry     marks.Entry
		wantCode  int
		wantGrade string
	}{
		{name: "grade B", token: f.teacher, entry: marks.Entry{StudentID: "s1", MarksObtained: 82}, wantCode: http.StatusOK, wantGrade: "B"},
		{name: "overwrite", token: f.admin, entry: marks.Entry{StudentID: "s1", MarksObtained: 95}, wantCode: http.StatusOK, wantGrade: "A"},
		{name: "above max marks", token: f.teacher, entry: marks.Entry{StudentID: "s2", MarksObtained: 101}, wantCode: http.StatusBadRequest},
		{name: "uncovered score", token: f.teacher, entry: marks.Entry{StudentID: "s2", MarksObtained: 89.5}, wantCode: http.StatusUnprocessableEntity},
		{name: "not enrolled", token: f.teacher, entry: marks.Entry{StudentID: "stranger", MarksObtained: 50}, wantCode: http.StatusNotFound},
		{name: "students cannot enter marks", token: f.student1, entry: marks.Entry{StudentID: "s1", MarksObtained: 100}, wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPut, path, tt.token, tt.entry)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantGrade != "" {
				var res marks.SubjectResult
				decode(t, rec, &res)
				assert.Equal(t, tt.wantGrade, res.Grade)
				assert.Equal(t, tt.entry.MarksObtained, res.MarksObtained)
				assert.NotEmpty(t, res.MarksID)
			}
		})
	}

	rec := f.do(t, http.MethodPut, "/v1/exam-subjects/nope/marks", f.teacher, marks.Entry{StudentID: "s1", MarksObtained: 50})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, path, f.teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []marks.SubjectResult
	decode(t, rec, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Grade)
}

func Test_marksApi_createUpdateDelete(t *testing.T) {
	f := setup(t)
	path := "/v1/exam-subjects/" + f.maths.ID + "/marks"

	rec := f.do(t, http.MethodPost, path, f.teacher, marks.Entry{StudentID: "s2", MarksObtained: 70})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created marks.SubjectResult
	decode(t, rec, &created)

	rec = f.do(t, http.MethodPost, path, f.teacher, marks.Entry{StudentID: "s2", MarksObtained: 80})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/marks/"+created.MarksID, f.teacher, marks.UpdateMarks{MarksObtained: 30})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated marks.SubjectResult
	decode(t, rec, &updated)
	assert.Equal(t, created.MarksID, updated.MarksID)
	assert.Equal(t, "F", updated.Grade)
	assert.False(t, updated.IsPassed)

	rec = f.do(t, http.MethodGet, "/v1/marks/"+created.MarksID, f.registrar, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sm marks.StudentMarks
	decode(t, rec, &sm)
	assert.Equal(t, 30.0, sm.MarksObtained)
	assert.Equal(t, "teacher-1", sm.EnteredBy)

	rec = f.do(t, http.MethodDelete, "/v1/marks/"+created.MarksID, f.teacher, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/v1/marks/"+created.MarksID, f.teacher, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_marksApi_recordBulk(t *testing.T) {
	f := setup(t)
	path := "/v1/exam-subjects/" + f.maths.ID + "/marks/bulk"

	rec := f.do(t, http.MethodPut, path, f.teacher, []marks.Entry{
		{StudentID: "s1", MarksObtained: 82},
		{StudentID: "s2", MarksObtained: 120},
		{StudentID: "s3", MarksObtained: 65},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var flds map[string]string
	decode(t, rec, &flds)
	assert.Len(t, flds, 1)
	assert.Contains(t, flds, "entries[1]")

	// nothing was recorded
	rec = f.do(t, http.MethodGet, "/v1/exam-subjects/"+f.maths.ID+"/marks", f.teacher, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodPut, path, f.teacher, []marks.Entry{
		{StudentID: "s1", MarksObtained: 82},
		{StudentID: "s2", MarksObtained: 20},
		{StudentID: "s3", MarksObtained: 65},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var results []marks.SubjectResult
	decode(t, rec, &results)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"B", "F", "C"}, []string{results[0].Grade, results[1].Grade, results[2].Grade})
}

func Test_marksApi_regrade(t *testing.T) {
	f := setup(t)
	f.env.Record(t, testutil.Caller, f.maths, "s1", 82)

	rec := f.do(t, http.MethodPost, "/v1/marks/regrade", f.teacher, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/marks/regrade", f.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"regraded": 0}`, rec.Body.String())
}

func Test_resultApi(t *testing.T) {
	f := setup(t)
	f.env.Record(t, testutil.Caller, f.maths, "s1", 90)
	f.env.Record(t, testutil.Caller, f.maths, "s2", 30)

	t.Run("summary", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/exam-classes/"+f.ec.ID+"/summary", f.teacher, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var sum result.ClassSummary
		decode(t, rec, &sum)
		assert.Equal(t, 3, sum.TotalStudents)
		assert.Equal(t, 2, sum.StudentsWithMarks)
		assert.Equal(t, 1, sum.PassedStudents)
		assert.Equal(t, 60.0, sum.AveragePercentage)
	})

	t.Run("ranking", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/exam-classes/"+f.ec.ID+"/ranking", f.teacher, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var ranked []result.ExamResult
		decode(t, rec, &ranked)
		require.Len(t, ranked, 2)
		assert.Equal(t, "s1", ranked[0].StudentID)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 2, ranked[1].Rank)

		rec = f.do(t, http.MethodGet, "/v1/exam-classes/"+f.ec.ID+"/ranking", f.student1, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	f.run(t, []httpTest{
		{name: "own result", path: "/v1/exams/" + f.ex.ID + "/results/s1", token: f.student1},
		{name: "someone else's result", path: "/v1/exams/" + f.ex.ID + "/results/s1", token: f.student2, wantCode: http.StatusNotFound},
		{name: "no marks", path: "/v1/exams/" + f.ex.ID + "/results/s3", token: f.teacher, wantCode: http.StatusNotFound},
		{name: "year results", path: "/v1/students/s2/years/2024/results", token: f.student2},
		{name: "no exams that year", path: "/v1/students/s2/years/2023/results", token: f.teacher, wantData: []byte(`[]`)},
	})

	rec := f.do(t, http.MethodGet, "/v1/exams/"+f.ex.ID+"/results/s2", f.teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res result.ExamResult
	decode(t, rec, &res)
	assert.False(t, res.IsPassed)
	assert.Equal(t, 2, res.Rank)
	assert.Equal(t, "2", res.RollNumber)
}
