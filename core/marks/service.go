package marks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

var (
	// errors
	ErrNotFound      = core.NewError(core.ErrNotFound, "student marks not found")
	ErrMarksExist    = core.NewError(core.ErrConflict, "marks were already recorded for this student")
	ErrInvalidBatch  = core.NewError(core.ErrInvalidMarks, "invalid marks entries, nothing was recorded")
	ErrUngradedBatch = core.NewError(core.ErrNoMatchingGrade, "marks outside the grade scale, nothing was recorded")
)

type (
	Repository interface {
		GetMarksByID(ctx context.Context, tenantID, id string) (StudentMarks, error)
		GetMarksBySubjectStudent(ctx context.Context, tenantID, examSubjectID, studentID string) (StudentMarks, error)
		QueryMarks(ctx context.Context, tenantID string, filter QueryFilter) ([]StudentMarks, error)
		// CreateMarks fails with ErrMarksExist if the (exam subject, student) pair already has marks.
		CreateMarks(ctx context.Context, sm StudentMarks) (StudentMarks, error)
		// UpsertMarks creates or overwrites the marks of the (exam subject, student) pair.
		// An overwritten record keeps its ID and CreatedAt.
		UpsertMarks(ctx context.Context, sm StudentMarks) (StudentMarks, error)
		// UpsertMarksBatch upserts every record as a single atomic unit.
		UpsertMarksBatch(ctx context.Context, tenantID string, marks []StudentMarks) ([]StudentMarks, error)
		DeleteMarks(ctx context.Context, tenantID, id string) error
	}

	Service struct {
		repo    Repository
		exams   exam.Repository
		roster  roster.Roster
		grading *grading.Service
		logger  core.Logger
	}
)

func NewService(
	repo Repository,
	exams exam.Repository,
	rstr roster.Roster,
	grades *grading.Service,
	logger core.Logger,
) *Service {
	return &Service{repo: repo, exams: exams, roster: rstr, grading: grades, logger: logger}
}

func (svc *Service) calculator(ctx context.Context, caller core.Caller) (Calculator, error) {
	scale, err := svc.grading.ScaleFor(ctx, caller)
	if err != nil {
		return Calculator{}, err
	}
	return NewCalculator(scale, svc.grading.Precision()), nil
}

// prepare grades one entry of an exam subject and checks the student's enrollment.
func (svc *Service) prepare(
	ctx context.Context,
	caller core.Caller,
	es exam.ExamSubject,
	entry Entry,
) (StudentMarks, SubjectResult, error) {
	entry.Clean()
	if entry.StudentID == "" {
		return StudentMarks{}, SubjectResult{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	calc, err := svc.calculator(ctx, caller)
	if err != nil {
		return StudentMarks{}, SubjectResult{}, err
	}
	res, err := calc.Calculate(entry.StudentID, entry.MarksObtained, es)
	if err != nil {
		if core.IsKind(err, core.ErrInvalidMarks) {
			return StudentMarks{}, SubjectResult{}, core.NewValidationError(err, core.FieldError{Field: "marks_obtained", Error: err.Error()})
		}
		return StudentMarks{}, SubjectResult{}, err
	}

	ec, err := svc.exams.GetExamClassByID(ctx, caller.TenantID, es.ExamClassID)
	if err != nil {
		return StudentMarks{}, SubjectResult{}, err
	}
	enrolled, err := svc.roster.IsEnrolled(ctx, caller.TenantID, ec.ClassID, entry.StudentID)
	if err != nil {
		return StudentMarks{}, SubjectResult{}, err
	}
	if !enrolled {
		return StudentMarks{}, SubjectResult{}, roster.ErrNotEnrolled
	}

	now := time.Now().UTC()
	return StudentMarks{
		ID:            uuid.New().String(),
		TenantID:      caller.TenantID,
		ExamSubjectID: es.ID,
		StudentID:     entry.StudentID,
		MarksObtained: entry.MarksObtained,
		GradeScaleID:  res.GradeScaleID,
		Grade:         res.Grade,
		EnteredBy:     caller.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, res, nil
}

// Record creates or overwrites the marks of a student in an exam subject and returns their result.
func (svc *Service) Record(ctx context.Context, caller core.Caller, examSubjectID string, entry Entry) (SubjectResult, error) {
	if err := caller.Check(); err != nil {
		return SubjectResult{}, err
	}
	es, err := svc.exams.GetExamSubjectByID(ctx, caller.TenantID, examSubjectID)
	if err != nil {
		return SubjectResult{}, err
	}
	sm, res, err := svc.prepare(ctx, caller, es, entry)
	if err != nil {
		return SubjectResult{}, err
	}
	if sm, err = svc.repo.UpsertMarks(ctx, sm); err != nil {
		return SubjectResult{}, err
	}
	res.MarksID = sm.ID
	return res, nil
}

// Create records the marks of a student in an exam subject, failing with ErrMarksExist if there are some.
func (svc *Service) Create(ctx context.Context, caller core.Caller, examSubjectID string, entry Entry) (SubjectResult, error) {
	if err := caller.Check(); err != nil {
		return SubjectResult{}, err
	}
	es, err := svc.exams.GetExamSubjectByID(ctx, caller.TenantID, examSubjectID)
	if err != nil {
		return SubjectResult{}, err
	}
	sm, res, err := svc.prepare(ctx, caller, es, entry)
	if err != nil {
		return SubjectResult{}, err
	}
	if sm, err = svc.repo.CreateMarks(ctx, sm); err != nil {
		return SubjectResult{}, err
	}
	res.MarksID = sm.ID
	return res, nil
}

// Update overwrites the score of existing marks.
func (svc *Service) Update(ctx context.Context, caller core.Caller, id string, um UpdateMarks) (SubjectResult, error) {
	if err := caller.Check(); err != nil {
		return SubjectResult{}, err
	}
	orig, err := svc.repo.GetMarksByID(ctx, caller.TenantID, id)
	if err != nil {
		return SubjectResult{}, err
	}
	es, err := svc.exams.GetExamSubjectByID(ctx, caller.TenantID, orig.ExamSubjectID)
	if err != nil {
		return SubjectResult{}, err
	}
	sm, res, err := svc.prepare(ctx, caller, es, Entry{StudentID: orig.StudentID, MarksObtained: um.MarksObtained})
	if err != nil {
		return SubjectResult{}, err
	}
	sm.ID = orig.ID
	sm.CreatedAt = orig.CreatedAt
	if sm, err = svc.repo.UpsertMarks(ctx, sm); err != nil {
		return SubjectResult{}, err
	}
	res.MarksID = sm.ID
	return res, nil
}

// RecordBulk validates every entry before writing any. If one fails, the whole batch is rejected
// with a ValidationError listing every failing entry. Its kind is core.ErrNoMatchingGrade when
// every failure is a scale gap, core.ErrInvalidMarks otherwise.
func (svc *Service) RecordBulk(ctx context.Context, caller core.Caller, examSubjectID string, entries []Entry) ([]SubjectResult, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	es, err := svc.exams.GetExamSubjectByID(ctx, caller.TenantID, examSubjectID)
	if err != nil {
		return nil, err
	}
	ec, err := svc.exams.GetExamClassByID(ctx, caller.TenantID, es.ExamClassID)
	if err != nil {
		return nil, err
	}
	students, err := svc.roster.ClassStudents(ctx, caller.TenantID, ec.ClassID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[string]bool, len(students))
	for _, st := range students {
		enrolled[st.ID] = true
	}
	calc, err := svc.calculator(ctx, caller)
	if err != nil {
		return nil, err
	}

	var flds []core.FieldError
	var gaps int
	now := time.Now().UTC()
	seen := make(map[string]int, len(entries))
	batch := make([]StudentMarks, 0, len(entries))
	results := make([]SubjectResult, 0, len(entries))
	for i, entry := range entries {
		entry.Clean()
		field := fmt.Sprintf("entries[%d]", i)

		switch prev, dup := seen[entry.StudentID]; {
		case entry.StudentID == "":
			flds = append(flds, core.FieldError{Field: field, Error: "student_id is required"})
			continue
		case dup:
			flds = append(flds, core.FieldError{Field: field, Error: fmt.Sprintf("duplicates entries[%d]", prev)})
			continue
		case !enrolled[entry.StudentID]:
			flds = append(flds, core.FieldError{Field: field, Error: roster.ErrNotEnrolled.Error()})
			continue
		}
		seen[entry.StudentID] = i

		res, err := calc.Calculate(entry.StudentID, entry.MarksObtained, es)
		if err != nil {
			if !core.IsKind(err, core.ErrInvalidMarks, core.ErrNoMatchingGrade) {
				return nil, err
			}
			if core.IsKind(err, core.ErrNoMatchingGrade) {
				gaps++
			}
			flds = append(flds, core.FieldError{Field: field, Error: err.Error()})
			continue
		}
		results = append(results, res)
		batch = append(batch, StudentMarks{
			ID:            uuid.New().String(),
			TenantID:      caller.TenantID,
			ExamSubjectID: es.ID,
			StudentID:     entry.StudentID,
			MarksObtained: entry.MarksObtained,
			GradeScaleID:  res.GradeScaleID,
			Grade:         res.Grade,
			EnteredBy:     caller.UserID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	if len(flds) > 0 {
		if gaps == len(flds) {
			return nil, core.NewValidationError(ErrUngradedBatch, flds...)
		}
		return nil, core.NewValidationError(ErrInvalidBatch, flds...)
	}

	saved, err := svc.repo.UpsertMarksBatch(ctx, caller.TenantID, batch)
	if err != nil {
		return nil, err
	}
	for i := range saved {
		results[i].MarksID = saved[i].ID
	}
	return results, nil
}

// Delete removes marks. Transcripts are left as they are until regenerated.
func (svc *Service) Delete(ctx context.Context, caller core.Caller, id string) error {
	if err := caller.Check(); err != nil {
		return err
	}
	return svc.repo.DeleteMarks(ctx, caller.TenantID, id)
}

func (svc *Service) Get(ctx context.Context, caller core.Caller, id string) (StudentMarks, error) {
	if err := caller.Check(); err != nil {
		return StudentMarks{}, err
	}
	return svc.repo.GetMarksByID(ctx, caller.TenantID, id)
}

// ListBySubject grades every recorded marks of an exam subject.
func (svc *Service) ListBySubject(ctx context.Context, caller core.Caller, examSubjectID string) ([]SubjectResult, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	es, err := svc.exams.GetExamSubjectByID(ctx, caller.TenantID, examSubjectID)
	if err != nil {
		return nil, err
	}
	sms, err := svc.repo.QueryMarks(ctx, caller.TenantID, QueryFilter{ExamSubjectIDs: []string{es.ID}})
	if err != nil {
		return nil, err
	}
	calc, err := svc.calculator(ctx, caller)
	if err != nil {
		return nil, err
	}

	results := make([]SubjectResult, 0, len(sms))
	for _, sm := range sms {
		res, err := calc.CalculateMarks(sm, es)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Regrade refreshes the cached grade of every marks of the caller's tenant against the current
// scale and returns how many changed. Nothing is written if any marks cannot be graded.
func (svc *Service) Regrade(ctx context.Context, caller core.Caller) (int, error) {
	if err := caller.Check(); err != nil {
		return 0, err
	}
	calc, err := svc.calculator(ctx, caller)
	if err != nil {
		return 0, err
	}
	sms, err := svc.repo.QueryMarks(ctx, caller.TenantID, QueryFilter{})
	if err != nil {
		return 0, err
	}

	subjects := make(map[string]exam.ExamSubject)
	var changed []StudentMarks
	for _, sm := range sms {
		es, ok := subjects[sm.ExamSubjectID]
		if !ok {
			if es, err = svc.exams.GetExamSubjectByID(ctx, caller.TenantID, sm.ExamSubjectID); err != nil {
				return 0, err
			}
			subjects[es.ID] = es
		}
		res, err := calc.CalculateMarks(sm, es)
		if err != nil {
			return 0, err
		}
		if res.GradeScaleID != sm.GradeScaleID || res.Grade != sm.Grade {
			sm.GradeScaleID = res.GradeScaleID
			sm.Grade = res.Grade
			sm.UpdatedAt = time.Now().UTC()
			changed = append(changed, sm)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}

	if _, err = svc.repo.UpsertMarksBatch(ctx, caller.TenantID, changed); err != nil {
		return 0, err
	}
	svc.logger.Info(fmt.Sprintf("regraded %d marks", len(changed)), map[string]interface{}{"tenant_id": caller.TenantID})
	return len(changed), nil
}
