package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/echo"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/tests"
)

func Test_transcriptApi(t *testing.T) {
	f := setup(t)
	f.env.Record(t, testutil.Caller, f.maths, "s1", 82)

	generate := func(token, studentID string) *transcript.Transcript {
		rec := f.do(t, http.MethodPost, "/v1/transcripts", token, echoapi.GenerateTranscriptRequest{StudentID: studentID, AcademicYearID: "2024"})
		if rec.Code != http.StatusOK {
			return nil
		}
		var tr transcript.Transcript
		decode(t, rec, &tr)
		return &tr
	}

	assert.Nil(t, generate(f.teacher, "s1"), "teachers cannot generate transcripts")

	tr := generate(f.registrar, "s1")
	require.NotNil(t, tr)
	assert.Equal(t, 8.0, tr.CGPA)
	assert.Equal(t, 4.0, tr.TotalCredits)
	assert.Equal(t, transcript.StatusPass, tr.ResultStatus)
	assert.False(t, tr.Published)

	path := "/v1/transcripts/" + tr.ID
	f.run(t, []httpTest{
		{name: "blank request", method: http.MethodPost, path: "/v1/transcripts", token: f.registrar, body: []byte(`{}`), wantCode: http.StatusBadRequest},
		{name: "draft hidden from its student", path: path, token: f.student1, wantCode: http.StatusNotFound},
		{name: "staff reads drafts", path: path, token: f.teacher},
		{name: "unknown transcript", path: "/v1/transcripts/nope", token: f.admin, wantCode: http.StatusNotFound},
		{name: "unpublish a draft", method: http.MethodPost, path: path + "/unpublish", token: f.registrar, wantCode: http.StatusConflict},
		{
			name: "pending status", method: http.MethodPost, path: path + "/publish", token: f.registrar,
			body: []byte(`{"result_status": "PENDING"}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"result_status": "must be PASS or FAIL"}`),
		},
	})

	rec := f.do(t, http.MethodPost, path+"/publish", f.registrar, transcript.PublishTranscript{Remarks: " well done "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pub transcript.Transcript
	decode(t, rec, &pub)
	assert.True(t, pub.Published)
	assert.Equal(t, "well done", pub.Remarks)
	assert.Equal(t, "registrar-1", pub.ApprovedBy)
	assert.Len(t, f.env.MailSvc.Sent(), 1)

	f.run(t, []httpTest{
		{name: "publish twice", method: http.MethodPost, path: path + "/publish", token: f.registrar, body: []byte(`{}`), wantCode: http.StatusConflict},
		{name: "regenerate a published transcript", method: http.MethodPost, path: "/v1/transcripts", token: f.registrar, body: marshalObj(t, echoapi.GenerateTranscriptRequest{StudentID: "s1", AcademicYearID: "2024"}), wantCode: http.StatusConflict},
		{name: "student reads their published transcript", path: path, token: f.student1, wantData: rec.Body.Bytes()},
		{name: "other students cannot", path: path, token: f.student2, wantCode: http.StatusNotFound},
		{name: "published filter", path: "/v1/transcripts?published=true&ordering=-cgpa", token: f.admin, wantData: marshalObj(t, []transcript.Transcript{pub})},
		{name: "drafts filter", path: "/v1/transcripts?published=false", token: f.admin, wantData: []byte(`[]`)},
		{name: "students cannot list", path: "/v1/transcripts", token: f.student1, wantCode: http.StatusForbidden},
	})

	rec = f.do(t, http.MethodPost, path+"/unpublish", f.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var unpub transcript.Transcript
	decode(t, rec, &unpub)
	assert.False(t, unpub.Published)
	assert.Nil(t, unpub.PublishedAt)

	f.env.Record(t, testutil.Caller, f.maths, "s1", 95)
	rec = f.do(t, http.MethodPost, "/v1/transcripts/refresh", f.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"refreshed": 1}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, path, f.registrar, nil)
	var refreshed transcript.Transcript
	decode(t, rec, &refreshed)
	assert.Equal(t, 10.0, refreshed.CGPA)
}
