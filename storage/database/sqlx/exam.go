package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
)

type (
	examRow struct {
		ID             string    `db:"id"`
		TenantID       string    `db:"tenant_id"`
		Name           string    `db:"name"`
		AcademicYearID string    `db:"academic_year_id"`
		StartDate      time.Time `db:"start_date"`
		CreatedAt      time.Time `db:"created_at"`
	}

	examClassRow struct {
		ID       string `db:"id"`
		TenantID string `db:"tenant_id"`
		ExamID   string `db:"exam_id"`
		ClassID  string `db:"class_id"`
	}

	examSubjectRow struct {
		ID          string      `db:"id"`
		TenantID    string      `db:"tenant_id"`
		ExamClassID string      `db:"exam_class_id"`
		SubjectID   string      `db:"subject_id"`
		MaxMarks    float64     `db:"max_marks"`
		PassMarks   float64     `db:"pass_marks"`
		ExamDate    null.Time   `db:"exam_date"`
		EvaluatorID null.String `db:"evaluator_id"`
	}
)

func (r examRow) unrow() exam.Exam {
	return exam.Exam{
		ID:             r.ID,
		TenantID:       r.TenantID,
		Name:           r.Name,
		AcademicYearID: r.AcademicYearID,
		StartDate:      r.StartDate.UTC(),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func subjectRow(es exam.ExamSubject) examSubjectRow {
	return examSubjectRow{
		ID:          es.ID,
		TenantID:    es.TenantID,
		ExamClassID: es.ExamClassID,
		SubjectID:   es.SubjectID,
		MaxMarks:    es.MaxMarks,
		PassMarks:   es.PassMarks,
		ExamDate:    null.NewTime(es.ExamDate.UTC(), !es.ExamDate.IsZero()),
		EvaluatorID: null.NewString(es.EvaluatorID, es.EvaluatorID != ""),
	}
}

func (r examSubjectRow) unrow() exam.ExamSubject {
	es := exam.ExamSubject{
		ID:          r.ID,
		TenantID:    r.TenantID,
		ExamClassID: r.ExamClassID,
		SubjectID:   r.SubjectID,
		MaxMarks:    r.MaxMarks,
		PassMarks:   r.PassMarks,
		EvaluatorID: r.EvaluatorID.String,
	}
	if r.ExamDate.Valid {
		es.ExamDate = r.ExamDate.Time.UTC()
	}
	return es
}

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) CreateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	q := `INSERT INTO exam (id, tenant_id, name, academic_year_id, start_date, created_at)
		VALUES (:id, :tenant_id, :name, :academic_year_id, :start_date, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, examRow(ex)); err != nil {
		return exam.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return ex, nil
}

func (repo *examRepository) GetExamByID(ctx context.Context, tenantID, id string) (exam.Exam, error) {
	var r examRow
	q := `SELECT * FROM exam WHERE tenant_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &r, q, tenantID, id); err != nil {
		return exam.Exam{}, trapNoRowsErr(errors.Wrap(err, "selecting exam"), exam.ErrNotFound)
	}
	return r.unrow(), nil
}

func (repo *examRepository) QueryExams(ctx context.Context, tenantID string, filter exam.QueryFilter) ([]exam.Exam, error) {
	conds := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": tenantID}
	if filter.AcademicYearID != "" {
		conds = append(conds, "academic_year_id = :academic_year_id")
		args["academic_year_id"] = filter.AcademicYearID
	}
	if !filter.StartFrom.IsZero() {
		conds = append(conds, "start_date >= :start_from")
		args["start_from"] = filter.StartFrom.UTC()
	}
	if !filter.StartTo.IsZero() {
		conds = append(conds, "start_date <= :start_to")
		args["start_to"] = filter.StartTo.UTC()
	}

	q := `SELECT * FROM exam WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY start_date, id`
	rows, err := repo.db.NamedQueryContext(ctx, q, args)
	if err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	defer func() { _ = rows.Close() }()

	exams := make([]exam.Exam, 0)
	for rows.Next() {
		var r examRow
		if err = rows.StructScan(&r); err != nil {
			return nil, errors.Wrap(err, "scanning exam")
		}
		exams = append(exams, r.unrow())
	}
	return exams, errors.Wrap(rows.Err(), "querying exams")
}

func (repo *examRepository) CreateExamClass(ctx context.Context, ec exam.ExamClass) (exam.ExamClass, error) {
	q := `INSERT INTO exam_class (id, tenant_id, exam_id, class_id) VALUES (:id, :tenant_id, :exam_id, :class_id)`
	if _, err := repo.db.NamedExecContext(ctx, q, examClassRow(ec)); err != nil {
		return exam.ExamClass{}, trapUniqueErr(errors.Wrap(err, "inserting exam class"), exam.ErrClassExists)
	}
	return ec, nil
}

func (repo *examRepository) GetExamClassByID(ctx context.Context, tenantID, id string) (exam.ExamClass, error) {
	var r examClassRow
	q := `SELECT * FROM exam_class WHERE tenant_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &r, q, tenantID, id); err != nil {
		return exam.ExamClass{}, trapNoRowsErr(errors.Wrap(err, "selecting exam class"), exam.ErrClassNotFound)
	}
	return exam.ExamClass(r), nil
}

func (repo *examRepository) QueryExamClasses(ctx context.Context, tenantID, examID string) ([]exam.ExamClass, error) {
	var rows []examClassRow
	q := `SELECT * FROM exam_class WHERE tenant_id = $1 AND exam_id = $2 ORDER BY class_id`
	if err := repo.db.SelectContext(ctx, &rows, q, tenantID, examID); err != nil {
		return nil, errors.Wrap(err, "querying exam classes")
	}

	classes := make([]exam.ExamClass, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, exam.ExamClass(r))
	}
	return classes, nil
}

func (repo *examRepository) CreateExamSubject(ctx context.Context, es exam.ExamSubject) (exam.ExamSubject, error) {
	q := `INSERT INTO exam_subject (id, tenant_id, exam_class_id, subject_id, max_marks, pass_marks, exam_date, evaluator_id)
		VALUES (:id, :tenant_id, :exam_class_id, :subject_id, :max_marks, :pass_marks, :exam_date, :evaluator_id)`
	if _, err := repo.db.NamedExecContext(ctx, q, subjectRow(es)); err != nil {
		return exam.ExamSubject{}, trapUniqueErr(errors.Wrap(err, "inserting exam subject"), exam.ErrSubjectExists)
	}
	return es, nil
}

func (repo *examRepository) GetExamSubjectByID(ctx context.Context, tenantID, id string) (exam.ExamSubject, error) {
	var r examSubjectRow
	q := `SELECT * FROM exam_subject WHERE tenant_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &r, q, tenantID, id); err != nil {
		return exam.ExamSubject{}, trapNoRowsErr(errors.Wrap(err, "selecting exam subject"), exam.ErrSubjectNotFound)
	}
	return r.unrow(), nil
}

func (repo *examRepository) QueryExamSubjects(ctx context.Context, tenantID string, examClassIDs ...string) ([]exam.ExamSubject, error) {
	subjects := make([]exam.ExamSubject, 0)
	if len(examClassIDs) == 0 {
		return subjects, nil
	}

	q, args, err := in(repo.db,
		`SELECT * FROM exam_subject WHERE tenant_id = ? AND exam_class_id IN (?) ORDER BY exam_class_id, subject_id`,
		tenantID, examClassIDs,
	)
	if err != nil {
		return nil, err
	}
	var rows []examSubjectRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying exam subjects")
	}
	for _, r := range rows {
		subjects = append(subjects, r.unrow())
	}
	return subjects, nil
}
