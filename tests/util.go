package testutil

import (
	"context"
	"net/mail"
	"strconv"
	"testing"
	"time"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
	appfs "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/fs"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/email"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database/dummy"
)

var (
	Caller      = core.Caller{TenantID: "tenant-1", UserID: "admin-1"}
	OtherCaller = core.Caller{TenantID: "tenant-2", UserID: "admin-2"}

	RegistrarEmail = mail.Address{Name: "Registrar", Address: "registrar@college.test"}

	// TenPointScale grades A [90, 100] 10, B [75, 89] 8, C [60, 74] 6 and F [0, 59] 0.
	TenPointScale = []grading.NewGradeScale{
		{Grade: "A", MinMarks: 90, MaxMarks: 100, GradePoints: 10},
		{Grade: "B", MinMarks: 75, MaxMarks: 89, GradePoints: 8},
		{Grade: "C", MinMarks: 60, MaxMarks: 74, GradePoints: 6},
		{Grade: "F", MinMarks: 0, MaxMarks: 59, GradePoints: 0},
	}

	// ContinuousScale covers every percentage at 2 decimals.
	ContinuousScale = []grading.NewGradeScale{
		{Grade: "A", MinMarks: 90, MaxMarks: 100, GradePoints: 10},
		{Grade: "B", MinMarks: 75, MaxMarks: 89.99, GradePoints: 8},
		{Grade: "C", MinMarks: 60, MaxMarks: 74.99, GradePoints: 6},
		{Grade: "D", MinMarks: 40, MaxMarks: 59.99, GradePoints: 4},
		{Grade: "F", MinMarks: 0, MaxMarks: 39.99, GradePoints: 0},
	}
)

// Config returns the configuration tests run with.
func Config() *core.Config {
	return &core.Config{
		AppName:          "College Results",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "secret",
		WorkDir:          core.Getwd(),
		DefaultFromEmail: mail.Address{Name: "College Results", Address: "noreply@college.test"},
		Server: core.ServerConfig{
			Host:               ":8000",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: 10 * time.Minute,
			DisableReqLogs:     true,
		},
		Database:   core.DatabaseConfig{Engine: "memory"},
		Grading:    core.DefaultGradingConfig(),
		Transcript: core.TranscriptConfig{NotifyEmails: []mail.Address{RegistrarEmail}},
	}
}

// Env wires every core service on top of an in-memory store.
type Env struct {
	Conf     *core.Config
	Validate *core.Validator
	DB       *dummydb.DB
	Roster   *dummydb.Roster
	MailSvc  *emailsvc.ConsoleServiceMock

	ExamRepo       exam.Repository
	MarksRepo      marks.Repository
	TranscriptRepo transcript.Repository

	Grading     *grading.Service
	Exams       *exam.Service
	Marks       *marks.Service
	Results     *result.Service
	Transcripts *transcript.Service
}

// NewEnv builds an Env. conf may be nil.
func NewEnv(t *testing.T, conf *core.Config) *Env {
	if conf == nil {
		conf = Config()
	}
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	templates, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.AppName, true)
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}

	env := &Env{
		Conf:           conf,
		Validate:       core.NewValidator(),
		DB:             db,
		Roster:         dummydb.NewRoster(db),
		MailSvc:        emailsvc.NewConsoleServiceMock(templates, conf),
		ExamRepo:       dummydb.NewExamRepository(db),
		MarksRepo:      dummydb.NewMarksRepository(db),
		TranscriptRepo: dummydb.NewTranscriptRepository(db),
	}
	logger := core.NopLogger{}
	env.Grading = grading.NewService(dummydb.NewGradeScaleRepository(db), env.Validate, conf)
	env.Exams = exam.NewService(env.ExamRepo, env.Roster, env.Validate)
	env.Marks = marks.NewService(env.MarksRepo, env.ExamRepo, env.Roster, env.Grading, logger)
	env.Results = result.NewService(env.ExamRepo, env.MarksRepo, env.Roster, env.Grading, conf)
	env.Transcripts = transcript.NewService(env.TranscriptRepo, env.Results, env.Roster, env.MailSvc, env.Validate, logger, conf)
	return env
}

func (env *Env) SetScale(t *testing.T, caller core.Caller, ranges []grading.NewGradeScale) *grading.Scale {
	scale, err := env.Grading.Replace(context.Background(), caller, append([]grading.NewGradeScale(nil), ranges...))
	if err != nil {
		t.Fatalf("SetScale() failed: %v", err)
	}
	return scale
}

func (env *Env) CreateExam(t *testing.T, caller core.Caller, name, yearID string, start time.Time) exam.Exam {
	ex, err := env.Exams.Create(context.Background(), caller, exam.NewExam{Name: name, AcademicYearID: yearID, StartDate: start})
	if err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}
	return ex
}

// AddClass makes the exam assess classID and enrolls students in it.
func (env *Env) AddClass(t *testing.T, caller core.Caller, ex exam.Exam, classID string, students ...roster.Student) exam.ExamClass {
	env.Roster.Enroll(caller.TenantID, classID, students...)
	ec, err := env.Exams.AddClass(context.Background(), caller, ex.ID, exam.NewExamClass{ClassID: classID})
	if err != nil {
		t.Fatalf("AddClass() failed: %v", err)
	}
	return ec
}

// AddSubject registers the subject in the roster and adds it to the exam class.
func (env *Env) AddSubject(t *testing.T, caller core.Caller, ec exam.ExamClass, subjectID string, credit, maxMarks, passMarks float64) exam.ExamSubject {
	env.Roster.AddSubject(caller.TenantID, roster.Subject{ID: subjectID, Name: subjectID, Credit: credit})
	es, err := env.Exams.AddSubject(context.Background(), caller, ec.ID, exam.NewExamSubject{
		SubjectID: subjectID,
		MaxMarks:  maxMarks,
		PassMarks: passMarks,
	})
	if err != nil {
		t.Fatalf("AddSubject() failed: %v", err)
	}
	return es
}

func (env *Env) Record(t *testing.T, caller core.Caller, es exam.ExamSubject, studentID string, marksObtained float64) marks.SubjectResult {
	res, err := env.Marks.Record(context.Background(), caller, es.ID, marks.Entry{StudentID: studentID, MarksObtained: marksObtained})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	return res
}

// Students returns students with the given ids, their roll numbers following their order.
func Students(ids ...string) []roster.Student {
	students := make([]roster.Student, 0, len(ids))
	for i, id := range ids {
		students = append(students, roster.Student{ID: id, RollNumber: strconv.Itoa(i + 1)})
	}
	return students
}
