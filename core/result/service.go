package result

import (
	"context"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

var (
	// errors
	ErrNoResult = core.NewError(core.ErrNotFound, "the student has no marks in this exam")
)

// ExamOutcome pairs an exam with a student's result in it.
type ExamOutcome struct {
	Exam   exam.Exam
	Result ExamResult
}

// Service computes results on demand from the marks currently stored. Results are advisory:
// marks written concurrently may or may not be reflected.
type Service struct {
	exams   exam.Repository
	marks   marks.Repository
	roster  roster.Roster
	grading *grading.Service
	policy  core.GradingConfig
}

func NewService(
	exams exam.Repository,
	marksRepo marks.Repository,
	rstr roster.Roster,
	grades *grading.Service,
	conf *core.Config,
) *Service {
	return &Service{exams: exams, marks: marksRepo, roster: rstr, grading: grades, policy: conf.Grading}
}

func (svc *Service) Precision() int { return svc.policy.Precision }

func (svc *Service) aggregator(ctx context.Context, caller core.Caller) (Aggregator, error) {
	scale, err := svc.grading.ScaleFor(ctx, caller)
	if err != nil {
		return Aggregator{}, err
	}
	return NewAggregator(scale, svc.policy), nil
}

// studentSubjects lists the subjects of every class of the exam the student is enrolled in,
// along with those classes.
func (svc *Service) studentSubjects(ctx context.Context, caller core.Caller, examID, studentID string) ([]exam.ExamClass, []exam.ExamSubject, error) {
	ecs, err := svc.exams.QueryExamClasses(ctx, caller.TenantID, examID)
	if err != nil {
		return nil, nil, err
	}
	var enrolledIn []exam.ExamClass
	var ecIDs []string
	for _, ec := range ecs {
		ok, err := svc.roster.IsEnrolled(ctx, caller.TenantID, ec.ClassID, studentID)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			enrolledIn = append(enrolledIn, ec)
			ecIDs = append(ecIDs, ec.ID)
		}
	}
	if len(ecIDs) == 0 {
		return nil, nil, nil
	}
	subjects, err := svc.exams.QueryExamSubjects(ctx, caller.TenantID, ecIDs...)
	if err != nil {
		return nil, nil, err
	}
	return enrolledIn, subjects, nil
}

func (svc *Service) studentResult(ctx context.Context, caller core.Caller, agg Aggregator, examID, studentID string) (*ExamResult, []exam.ExamClass, error) {
	ecs, subjects, err := svc.studentSubjects(ctx, caller, examID, studentID)
	if err != nil || len(subjects) == 0 {
		return nil, ecs, err
	}
	sms, err := svc.marks.QueryMarks(ctx, caller.TenantID, marks.QueryFilter{ExamSubjectIDs: subjectIDs(subjects), StudentID: studentID})
	if err != nil {
		return nil, nil, err
	}
	res, err := agg.Aggregate(examID, studentID, subjects, sms)
	return res, ecs, err
}

// StudentExamResult returns a student's result in an exam. The rank within their class is set
// when the student belongs to a single class of the exam.
func (svc *Service) StudentExamResult(ctx context.Context, caller core.Caller, examID, studentID string) (ExamResult, error) {
	if err := caller.Check(); err != nil {
		return ExamResult{}, err
	}
	if _, err := svc.exams.GetExamByID(ctx, caller.TenantID, examID); err != nil {
		return ExamResult{}, err
	}
	agg, err := svc.aggregator(ctx, caller)
	if err != nil {
		return ExamResult{}, err
	}
	res, ecs, err := svc.studentResult(ctx, caller, agg, examID, studentID)
	if err != nil {
		return ExamResult{}, err
	}
	if res == nil {
		return ExamResult{}, ErrNoResult
	}

	if len(ecs) == 1 {
		_, ranked, err := svc.classResults(ctx, caller, agg, ecs[0])
		if err != nil {
			return ExamResult{}, err
		}
		for _, r := range ranked {
			if r.StudentID == studentID {
				res.Rank = r.Rank
				res.RollNumber = r.RollNumber
				break
			}
		}
	}
	return *res, nil
}

// classResults returns the class's students and the ranked results of those having marks.
func (svc *Service) classResults(ctx context.Context, caller core.Caller, agg Aggregator, ec exam.ExamClass) ([]roster.Student, []ExamResult, error) {
	students, err := svc.roster.ClassStudents(ctx, caller.TenantID, ec.ClassID)
	if err != nil {
		return nil, nil, err
	}
	subjects, err := svc.exams.QueryExamSubjects(ctx, caller.TenantID, ec.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(subjects) == 0 {
		return students, nil, nil
	}
	sms, err := svc.marks.QueryMarks(ctx, caller.TenantID, marks.QueryFilter{ExamSubjectIDs: subjectIDs(subjects)})
	if err != nil {
		return nil, nil, err
	}

	byStudent := make(map[string][]marks.StudentMarks)
	for _, sm := range sms {
		byStudent[sm.StudentID] = append(byStudent[sm.StudentID], sm)
	}
	results := make([]ExamResult, 0, len(students))
	for _, st := range students {
		res, err := agg.Aggregate(ec.ExamID, st.ID, subjects, byStudent[st.ID])
		if err != nil {
			return nil, nil, err
		}
		if res == nil {
			continue
		}
		res.RollNumber = st.RollNumber
		results = append(results, *res)
	}
	return students, Rank(results, svc.policy.Precision), nil
}

// ClassRanking returns the ranked results of the students of an exam class having marks.
func (svc *Service) ClassRanking(ctx context.Context, caller core.Caller, examClassID string) ([]ExamResult, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	ec, err := svc.exams.GetExamClassByID(ctx, caller.TenantID, examClassID)
	if err != nil {
		return nil, err
	}
	agg, err := svc.aggregator(ctx, caller)
	if err != nil {
		return nil, err
	}
	_, ranked, err := svc.classResults(ctx, caller, agg, ec)
	return ranked, err
}

func (svc *Service) ClassSummary(ctx context.Context, caller core.Caller, examClassID string) (ClassSummary, error) {
	if err := caller.Check(); err != nil {
		return ClassSummary{}, err
	}
	ec, err := svc.exams.GetExamClassByID(ctx, caller.TenantID, examClassID)
	if err != nil {
		return ClassSummary{}, err
	}
	agg, err := svc.aggregator(ctx, caller)
	if err != nil {
		return ClassSummary{}, err
	}
	students, results, err := svc.classResults(ctx, caller, agg, ec)
	if err != nil {
		return ClassSummary{}, err
	}

	sum := Summarize(results, len(students), svc.policy.Precision)
	sum.ExamID = ec.ExamID
	sum.ExamClassID = ec.ID
	return sum, nil
}

// YearOutcomes returns the student's result in every exam of an academic year they have marks in,
// ordered by exam start date.
func (svc *Service) YearOutcomes(ctx context.Context, caller core.Caller, studentID, academicYearID string) ([]ExamOutcome, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	exams, err := svc.exams.QueryExams(ctx, caller.TenantID, exam.QueryFilter{AcademicYearID: academicYearID})
	if err != nil {
		return nil, err
	}
	if len(exams) == 0 {
		return nil, nil
	}
	agg, err := svc.aggregator(ctx, caller)
	if err != nil {
		return nil, err
	}

	var outcomes []ExamOutcome
	for _, ex := range exams {
		res, _, err := svc.studentResult(ctx, caller, agg, ex.ID, studentID)
		if err != nil {
			return nil, err
		}
		if res != nil {
			outcomes = append(outcomes, ExamOutcome{Exam: ex, Result: *res})
		}
	}
	return outcomes, nil
}

func subjectIDs(subjects []exam.ExamSubject) []string {
	ids := make([]string, 0, len(subjects))
	for _, es := range subjects {
		ids = append(ids, es.ID)
	}
	return ids
}
