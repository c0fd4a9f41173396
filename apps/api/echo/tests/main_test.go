package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/echo"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type fixture struct {
	env *testutil.Env
	app *echoapi.Server

	ex    exam.Exam
	ec    exam.ExamClass
	maths exam.ExamSubject

	admin, registrar, teacher string // tokens
	student1, student2        string // tokens of s1 & s2
}

// setup serves the API over an in-memory store holding a graded exam class of s1, s2 & s3
// with one subject, maths (credit 4, out of 100, pass 40).
func setup(t *testing.T) *fixture {
	env := testutil.NewEnv(t, nil)
	app := echoapi.NewServer(echoapi.Options{
		Conf:          env.Conf,
		Logger:        core.NopLogger{},
		Validate:      env.Validate,
		GradingSvc:    env.Grading,
		ExamSvc:       env.Exams,
		MarksSvc:      env.Marks,
		ResultSvc:     env.Results,
		TranscriptSvc: env.Transcripts,
	})

	caller := testutil.Caller
	env.SetScale(t, caller, testutil.TenPointScale)
	ex := env.CreateExam(t, caller, "Final", "2024", time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC))
	ec := env.AddClass(t, caller, ex, "class-a", testutil.Students("s1", "s2", "s3")...)
	maths := env.AddSubject(t, caller, ec, "maths", 4, 100, 40)

	f := &fixture{env: env, app: app, ex: ex, ec: ec, maths: maths}
	f.admin = getToken(t, env.Conf, caller.UserID, echoapi.RoleAdmin)
	f.registrar = getToken(t, env.Conf, "registrar-1", echoapi.RoleRegistrar)
	f.teacher = getToken(t, env.Conf, "teacher-1", echoapi.RoleTeacher)
	f.student1 = getToken(t, env.Conf, "s1", echoapi.RoleStudent)
	f.student2 = getToken(t, env.Conf, "s2", echoapi.RoleStudent)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var data []byte
	if body != nil {
		data = marshalObj(t, body)
	}
	req, rec := newAuthRequest(method, path, token, data)
	f.app.ServeHTTP(rec, req)
	return rec
}

// run executes table tests whose wantData, when set, must equal the response body.
func (f *fixture) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	if method == "" {
		method = http.MethodGet
	}
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, userID string, roles ...string) string {
	claims := echoapi.NewClaims(conf, testutil.Caller.TenantID, userID, roles...)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}
