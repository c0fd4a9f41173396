package exam

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

var (
	// errors
	ErrNotFound            = core.NewError(core.ErrNotFound, "exam not found")
	ErrClassNotFound       = core.NewError(core.ErrNotFound, "exam class not found")
	ErrSubjectNotFound     = core.NewError(core.ErrNotFound, "exam subject not found")
	ErrClassExists         = core.NewError(core.ErrConflict, "this class is already assessed by the exam")
	ErrSubjectExists       = core.NewError(core.ErrConflict, "this subject is already assessed for the class")
	ErrInvalidSubjectMarks = core.NewError(core.ErrInvalidMarks, "invalid exam subject marks")
)

type (
	Repository interface {
		CreateExam(ctx context.Context, ex Exam) (Exam, error)
		GetExamByID(ctx context.Context, tenantID, id string) (Exam, error)
		// QueryExams returns the tenant's exams matching filter, oldest first.
		QueryExams(ctx context.Context, tenantID string, filter QueryFilter) ([]Exam, error)

		CreateExamClass(ctx context.Context, ec ExamClass) (ExamClass, error)
		GetExamClassByID(ctx context.Context, tenantID, id string) (ExamClass, error)
		QueryExamClasses(ctx context.Context, tenantID, examID string) ([]ExamClass, error)

		CreateExamSubject(ctx context.Context, es ExamSubject) (ExamSubject, error)
		GetExamSubjectByID(ctx context.Context, tenantID, id string) (ExamSubject, error)
		QueryExamSubjects(ctx context.Context, tenantID string, examClassIDs ...string) ([]ExamSubject, error)
	}

	Service struct {
		repo     Repository
		roster   roster.Roster
		validate *core.Validator
	}
)

func NewService(repo Repository, rstr roster.Roster, validate *core.Validator) *Service {
	return &Service{repo: repo, roster: rstr, validate: validate}
}

func (svc *Service) Create(ctx context.Context, caller core.Caller, ne NewExam) (Exam, error) {
	if err := caller.Check(); err != nil {
		return Exam{}, err
	}
	ne.Clean()
	if err := svc.validate.Check(ne, nil); err != nil {
		return Exam{}, err
	}
	return svc.repo.CreateExam(ctx, Exam{
		ID:             uuid.New().String(),
		TenantID:       caller.TenantID,
		Name:           ne.Name,
		AcademicYearID: ne.AcademicYearID,
		StartDate:      ne.StartDate.UTC(),
		CreatedAt:      time.Now().UTC(),
	})
}

func (svc *Service) Get(ctx context.Context, caller core.Caller, id string) (Exam, error) {
	if err := caller.Check(); err != nil {
		return Exam{}, err
	}
	return svc.repo.GetExamByID(ctx, caller.TenantID, id)
}

func (svc *Service) Query(ctx context.Context, caller core.Caller, filter QueryFilter) ([]Exam, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	filter.Clean()
	return svc.repo.QueryExams(ctx, caller.TenantID, filter)
}

// AddClass makes the exam assess a roster class.
func (svc *Service) AddClass(ctx context.Context, caller core.Caller, examID string, nc NewExamClass) (ExamClass, error) {
	if err := caller.Check(); err != nil {
		return ExamClass{}, err
	}
	nc.ClassID = core.CleanString(nc.ClassID)
	if err := svc.validate.Check(nc, nil); err != nil {
		return ExamClass{}, err
	}
	if _, err := svc.repo.GetExamByID(ctx, caller.TenantID, examID); err != nil {
		return ExamClass{}, err
	}
	return svc.repo.CreateExamClass(ctx, ExamClass{
		ID:       uuid.New().String(),
		TenantID: caller.TenantID,
		ExamID:   examID,
		ClassID:  nc.ClassID,
	})
}

func (svc *Service) GetClass(ctx context.Context, caller core.Caller, id string) (ExamClass, error) {
	if err := caller.Check(); err != nil {
		return ExamClass{}, err
	}
	return svc.repo.GetExamClassByID(ctx, caller.TenantID, id)
}

func (svc *Service) Classes(ctx context.Context, caller core.Caller, examID string) ([]ExamClass, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	return svc.repo.QueryExamClasses(ctx, caller.TenantID, examID)
}

// AddSubject makes an exam class assessed on a roster subject.
func (svc *Service) AddSubject(ctx context.Context, caller core.Caller, examClassID string, ns NewExamSubject) (ExamSubject, error) {
	if err := caller.Check(); err != nil {
		return ExamSubject{}, err
	}
	ns.Clean()
	if err := svc.validate.Check(ns, core.ErrInvalidMarks); err != nil {
		return ExamSubject{}, err
	}
	if _, err := svc.repo.GetExamClassByID(ctx, caller.TenantID, examClassID); err != nil {
		return ExamSubject{}, err
	}
	if _, err := svc.roster.Subject(ctx, caller.TenantID, ns.SubjectID); err != nil {
		return ExamSubject{}, err
	}

	examDate := ns.ExamDate
	if !examDate.IsZero() {
		examDate = examDate.UTC()
	}
	return svc.repo.CreateExamSubject(ctx, ExamSubject{
		ID:          uuid.New().String(),
		TenantID:    caller.TenantID,
		ExamClassID: examClassID,
		SubjectID:   ns.SubjectID,
		MaxMarks:    ns.MaxMarks,
		PassMarks:   ns.PassMarks,
		ExamDate:    examDate,
		EvaluatorID: ns.EvaluatorID,
	})
}

func (svc *Service) GetSubject(ctx context.Context, caller core.Caller, id string) (ExamSubject, error) {
	if err := caller.Check(); err != nil {
		return ExamSubject{}, err
	}
	return svc.repo.GetExamSubjectByID(ctx, caller.TenantID, id)
}

func (svc *Service) Subjects(ctx context.Context, caller core.Caller, examClassID string) ([]ExamSubject, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	return svc.repo.QueryExamSubjects(ctx, caller.TenantID, examClassID)
}
