package transcript

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

var (
	// errors
	ErrNotFound         = core.NewError(core.ErrNotFound, "transcript not found")
	ErrExists           = core.NewError(core.ErrConflict, "a transcript already exists for this student and academic year")
	ErrPublished        = core.NewError(core.ErrConflict, "the transcript is published, unpublish it first")
	ErrAlreadyPublished = core.NewError(core.ErrConflict, "the transcript is already published")
	ErrNotPublished     = core.NewError(core.ErrConflict, "the transcript is not published")
	ErrPendingStatus    = core.NewValidationError(nil, core.FieldError{Field: "result_status", Error: "a transcript without results cannot be published"})

	nowFunc = time.Now // mockable
)

const publishedTemplate = "transcript_published"

type (
	Repository interface {
		GetTranscriptByID(ctx context.Context, tenantID, id string) (Transcript, error)
		GetTranscriptByStudentYear(ctx context.Context, tenantID, studentID, academicYearID string) (Transcript, error)
		QueryTranscripts(ctx context.Context, tenantID string, filter QueryFilter, ordering []core.DBOrdering) ([]Transcript, error)
		// CreateTranscript fails with ErrExists if the student already has one for the year.
		CreateTranscript(ctx context.Context, t Transcript) (Transcript, error)
		// UpdateDraft overwrites the computed fields of an unpublished transcript.
		// It fails with ErrPublished if the transcript is published.
		UpdateDraft(ctx context.Context, t Transcript) (Transcript, error)
		// SetPublished fails with ErrAlreadyPublished if the transcript is published.
		SetPublished(ctx context.Context, tenantID, id string, pub Publication) (Transcript, error)
		// SetUnpublished fails with ErrNotPublished if the transcript is not published.
		SetUnpublished(ctx context.Context, tenantID, id string) (Transcript, error)
		// QueryDraftTenants lists the tenants having unpublished transcripts.
		QueryDraftTenants(ctx context.Context) ([]string, error)
	}

	// ResultSource provides a student's exam results over an academic year.
	ResultSource interface {
		YearOutcomes(ctx context.Context, caller core.Caller, studentID, academicYearID string) ([]result.ExamOutcome, error)
	}

	Service struct {
		repo     Repository
		results  ResultSource
		roster   roster.Roster
		mailSvc  core.EmailService
		validate *core.Validator
		logger   core.Logger
		conf     *core.Config
	}
)

func NewService(
	repo Repository,
	results ResultSource,
	rstr roster.Roster,
	mailSvc core.EmailService,
	validate *core.Validator,
	logger core.Logger,
	conf *core.Config,
) *Service {
	InitValidators(validate)
	return &Service{
		repo:     repo,
		results:  results,
		roster:   rstr,
		mailSvc:  mailSvc,
		validate: validate,
		logger:   logger,
		conf:     conf,
	}
}

// compute builds the lines, credits, CGPA and status of a student's year from their exam outcomes.
// Outcomes must be ordered by exam start date.
func (svc *Service) compute(ctx context.Context, caller core.Caller, t *Transcript, outcomes []result.ExamOutcome) error {
	t.ResultStatus = StatusPending
	t.CGPA, t.TotalCredits = 0, 0
	t.Lines = make([]Line, 0)
	if len(outcomes) == 0 {
		return nil
	}

	credits := make(map[string]float64)
	bySubject := make(map[string]Line)
	examPassed := make(map[string]bool, len(outcomes))
	for _, oc := range outcomes {
		examPassed[oc.Exam.ID] = oc.Result.IsPassed
		for _, sr := range oc.Result.Subjects {
			credit, ok := credits[sr.SubjectID]
			if !ok {
				subj, err := svc.roster.Subject(ctx, caller.TenantID, sr.SubjectID)
				if err != nil {
					return err
				}
				credit = subj.Credit
				credits[sr.SubjectID] = credit
			}
			line := Line{
				SubjectID:     sr.SubjectID,
				ExamID:        oc.Exam.ID,
				ExamSubjectID: sr.ExamSubjectID,
				Grade:         sr.Grade,
				GradePoints:   sr.GradePoints,
				Credit:        credit,
				IsPassed:      sr.IsPassed,
			}

			// a subject assessed by several exams of the year counts once
			prev, seen := bySubject[sr.SubjectID]
			switch {
			case !seen, svc.conf.Grading.RepeatPolicy != core.RepeatPolicyBest:
				bySubject[sr.SubjectID] = line // latest wins
			case line.GradePoints >= prev.GradePoints:
				bySubject[sr.SubjectID] = line
			}
		}
	}

	// only the exams still holding a line after the repeat policy decide the status
	t.ResultStatus = StatusPass
	var weighted float64
	for _, line := range bySubject {
		if !examPassed[line.ExamID] {
			t.ResultStatus = StatusFail
		}
		t.Lines = append(t.Lines, line)
		t.TotalCredits += line.Credit
		weighted += line.GradePoints * line.Credit
	}
	sort.Slice(t.Lines, func(i, j int) bool { return t.Lines[i].SubjectID < t.Lines[j].SubjectID })
	if t.TotalCredits > 0 {
		t.CGPA = grading.Round(weighted/t.TotalCredits, svc.conf.Grading.Precision)
	}
	return nil
}

// Generate computes the student's transcript for the academic year, creating it or refreshing
// the existing draft. A published transcript cannot be regenerated.
func (svc *Service) Generate(ctx context.Context, caller core.Caller, studentID, academicYearID string) (Transcript, error) {
	if err := caller.Check(); err != nil {
		return Transcript{}, err
	}
	studentID = core.CleanString(studentID)
	academicYearID = core.CleanString(academicYearID)
	var flds []core.FieldError
	if studentID == "" {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if academicYearID == "" {
		flds = append(flds, core.FieldError{Field: "academic_year_id", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return Transcript{}, core.NewValidationError(nil, flds...)
	}

	existing, err := svc.repo.GetTranscriptByStudentYear(ctx, caller.TenantID, studentID, academicYearID)
	switch {
	case err == nil && existing.Published:
		return Transcript{}, ErrPublished
	case err != nil && !errors.Is(err, ErrNotFound):
		return Transcript{}, err
	}
	isNew := err != nil

	outcomes, err := svc.results.YearOutcomes(ctx, caller, studentID, academicYearID)
	if err != nil {
		return Transcript{}, err
	}

	t := existing
	if isNew {
		t = Transcript{
			ID:             uuid.New().String(),
			TenantID:       caller.TenantID,
			StudentID:      studentID,
			AcademicYearID: academicYearID,
		}
	}
	if err = svc.compute(ctx, caller, &t, outcomes); err != nil {
		return Transcript{}, err
	}
	t.GeneratedAt = nowFunc().UTC()

	if isNew {
		return svc.repo.CreateTranscript(ctx, t)
	}
	return svc.repo.UpdateDraft(ctx, t)
}

// Publish makes an unpublished transcript official and notifies the registrar.
func (svc *Service) Publish(ctx context.Context, caller core.Caller, id string, pt PublishTranscript) (Transcript, error) {
	if err := caller.Check(); err != nil {
		return Transcript{}, err
	}
	pt.Clean()
	if err := svc.validate.Check(pt, nil); err != nil {
		return Transcript{}, err
	}

	t, err := svc.repo.GetTranscriptByID(ctx, caller.TenantID, id)
	if err != nil {
		return Transcript{}, err
	}
	if t.Published {
		return Transcript{}, ErrAlreadyPublished
	}

	status := pt.ResultStatus
	if status == "" {
		status = t.ResultStatus
	}
	if status == StatusPending {
		return Transcript{}, ErrPendingStatus
	}

	t, err = svc.repo.SetPublished(ctx, caller.TenantID, id, Publication{
		ResultStatus: status,
		Remarks:      pt.Remarks,
		ApprovedBy:   caller.UserID,
		PublishedAt:  nowFunc().UTC(),
	})
	if err != nil {
		return Transcript{}, err
	}
	svc.notifyPublished(t)
	return t, nil
}

// Unpublish turns a published transcript back into a draft.
func (svc *Service) Unpublish(ctx context.Context, caller core.Caller, id string) (Transcript, error) {
	if err := caller.Check(); err != nil {
		return Transcript{}, err
	}
	t, err := svc.repo.GetTranscriptByID(ctx, caller.TenantID, id)
	if err != nil {
		return Transcript{}, err
	}
	if !t.Published {
		return Transcript{}, ErrNotPublished
	}
	return svc.repo.SetUnpublished(ctx, caller.TenantID, id)
}

func (svc *Service) Get(ctx context.Context, caller core.Caller, id string) (Transcript, error) {
	if err := caller.Check(); err != nil {
		return Transcript{}, err
	}
	return svc.repo.GetTranscriptByID(ctx, caller.TenantID, id)
}

func (svc *Service) GetByStudentYear(ctx context.Context, caller core.Caller, studentID, academicYearID string) (Transcript, error) {
	if err := caller.Check(); err != nil {
		return Transcript{}, err
	}
	return svc.repo.GetTranscriptByStudentYear(ctx, caller.TenantID, core.CleanString(studentID), core.CleanString(academicYearID))
}

func (svc *Service) Query(ctx context.Context, caller core.Caller, filter QueryFilter, ordering []core.DBOrdering) ([]Transcript, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	filter.Clean()
	return svc.repo.QueryTranscripts(ctx, caller.TenantID, filter, core.CleanOrderings(ordering, OrderingFields))
}

// RefreshDrafts regenerates every unpublished transcript of the caller's tenant and returns how
// many were refreshed. Transcripts published in the meantime are skipped.
func (svc *Service) RefreshDrafts(ctx context.Context, caller core.Caller) (int, error) {
	if err := caller.Check(); err != nil {
		return 0, err
	}
	published := false
	drafts, err := svc.repo.QueryTranscripts(ctx, caller.TenantID, QueryFilter{Published: &published}, nil)
	if err != nil {
		return 0, err
	}

	var n int
	for _, t := range drafts {
		if _, err = svc.Generate(ctx, caller, t.StudentID, t.AcademicYearID); err != nil {
			if errors.Is(err, ErrPublished) {
				continue
			}
			return n, errors.Wrapf(err, "refreshing transcript %s", t.ID)
		}
		n++
	}
	return n, nil
}

// RefreshAllDrafts runs RefreshDrafts for every tenant having drafts, on behalf of userID.
func (svc *Service) RefreshAllDrafts(ctx context.Context, userID string) (int, error) {
	tenants, err := svc.repo.QueryDraftTenants(ctx)
	if err != nil {
		return 0, err
	}

	var total int
	for _, tenantID := range tenants {
		caller := core.Caller{TenantID: tenantID, UserID: userID}
		n, err := svc.RefreshDrafts(ctx, caller)
		total += n
		if err != nil {
			svc.logger.Error(fmt.Sprintf("refreshing drafts: %v", err), err, caller)
		}
	}
	return total, nil
}

func (svc *Service) notifyPublished(t Transcript) {
	if len(svc.conf.Transcript.NotifyEmails) == 0 {
		return
	}
	msg := &core.EmailMessage{
		To:           append([]mail.Address(nil), svc.conf.Transcript.NotifyEmails...),
		Subject:      "Transcript published",
		TemplateName: publishedTemplate,
		TemplateData: t,
		Category:     publishedTemplate,
		Tags:         map[string]string{"tenant_id": t.TenantID, "transcript_id": t.ID},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, t); err != nil {
		svc.logger.Error(fmt.Sprintf("writing transcript csv: %v", err), err)
	} else if err = msg.Attach(&buf, fmt.Sprintf("transcript-%s-%s.csv", t.StudentID, t.AcademicYearID), "text/csv"); err != nil {
		svc.logger.Error(fmt.Sprintf("attaching transcript csv: %v", err), err)
	}
	svc.mailSvc.SendMessages(msg)
}

func writeCSV(buf *bytes.Buffer, t Transcript) error {
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"subject_id", "exam_id", "grade", "grade_points", "credit"})
	for _, line := range t.Lines {
		_ = w.Write([]string{
			line.SubjectID,
			line.ExamID,
			line.Grade,
			strconv.FormatFloat(line.GradePoints, 'f', -1, 64),
			strconv.FormatFloat(line.Credit, 'f', -1, 64),
		})
	}
	_ = w.Write([]string{"", "", string(t.ResultStatus), strconv.FormatFloat(t.CGPA, 'f', -1, 64), strconv.FormatFloat(t.TotalCredits, 'f', -1, 64)})
	w.Flush()
	return w.Error()
}
