package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
)

type marksRow struct {
	ID            string      `db:"id"`
	TenantID      string      `db:"tenant_id"`
	ExamSubjectID string      `db:"exam_subject_id"`
	StudentID     string      `db:"student_id"`
	MarksObtained float64     `db:"marks_obtained"`
	GradeScaleID  null.String `db:"grade_scale_id"`
	Grade         string      `db:"grade"`
	EnteredBy     null.String `db:"entered_by"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func toMarksRow(sm marks.StudentMarks) marksRow {
	return marksRow{
		ID:            sm.ID,
		TenantID:      sm.TenantID,
		ExamSubjectID: sm.ExamSubjectID,
		StudentID:     sm.StudentID,
		MarksObtained: sm.MarksObtained,
		GradeScaleID:  null.NewString(sm.GradeScaleID, sm.GradeScaleID != ""),
		Grade:         sm.Grade,
		EnteredBy:     null.NewString(sm.EnteredBy, sm.EnteredBy != ""),
		CreatedAt:     sm.CreatedAt.UTC(),
		UpdatedAt:     sm.UpdatedAt.UTC(),
	}
}

func (r marksRow) unrow() marks.StudentMarks {
	return marks.StudentMarks{
		ID:            r.ID,
		TenantID:      r.TenantID,
		ExamSubjectID: r.ExamSubjectID,
		StudentID:     r.StudentID,
		MarksObtained: r.MarksObtained,
		GradeScaleID:  r.GradeScaleID.String,
		Grade:         r.Grade,
		EnteredBy:     r.EnteredBy.String,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

const (
	insertMarksQuery = `INSERT INTO student_marks
		(id, tenant_id, exam_subject_id, student_id, marks_obtained, grade_scale_id, grade, entered_by, created_at, updated_at)
		VALUES (:id, :tenant_id, :exam_subject_id, :student_id, :marks_obtained, :grade_scale_id, :grade, :entered_by, :created_at, :updated_at)`

	// an overwritten record keeps its id and created_at
	upsertMarksQuery = insertMarksQuery + `
		ON CONFLICT (exam_subject_id, student_id) DO UPDATE SET
			marks_obtained = EXCLUDED.marks_obtained,
			grade_scale_id = EXCLUDED.grade_scale_id,
			grade = EXCLUDED.grade,
			entered_by = EXCLUDED.entered_by,
			updated_at = EXCLUDED.updated_at
		RETURNING *`
)

type marksRepository struct {
	db *sqlx.DB
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *sqlx.DB) marks.Repository {
	return &marksRepository{db: db}
}

func (repo *marksRepository) GetMarksByID(ctx context.Context, tenantID, id string) (marks.StudentMarks, error) {
	var r marksRow
	q := `SELECT * FROM student_marks WHERE tenant_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &r, q, tenantID, id); err != nil {
		return marks.StudentMarks{}, trapNoRowsErr(errors.Wrap(err, "selecting marks"), marks.ErrNotFound)
	}
	return r.unrow(), nil
}

func (repo *marksRepository) GetMarksBySubjectStudent(ctx context.Context, tenantID, examSubjectID, studentID string) (marks.StudentMarks, error) {
	var r marksRow
	q := `SELECT * FROM student_marks WHERE tenant_id = $1 AND exam_subject_id = $2 AND student_id = $3`
	if err := repo.db.GetContext(ctx, &r, q, tenantID, examSubjectID, studentID); err != nil {
		return marks.StudentMarks{}, trapNoRowsErr(errors.Wrap(err, "selecting marks"), marks.ErrNotFound)
	}
	return r.unrow(), nil
}

func (repo *marksRepository) QueryMarks(ctx context.Context, tenantID string, filter marks.QueryFilter) ([]marks.StudentMarks, error) {
	q := `SELECT * FROM student_marks WHERE tenant_id = ?`
	args := []interface{}{tenantID}
	if len(filter.ExamSubjectIDs) > 0 {
		q += ` AND exam_subject_id IN (?)`
		args = append(args, filter.ExamSubjectIDs)
	}
	if filter.StudentID != "" {
		q += ` AND student_id = ?`
		args = append(args, filter.StudentID)
	}
	q, args, err := in(repo.db, q+` ORDER BY exam_subject_id, student_id`, args...)
	if err != nil {
		return nil, err
	}

	var rows []marksRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	sms := make([]marks.StudentMarks, 0, len(rows))
	for _, r := range rows {
		sms = append(sms, r.unrow())
	}
	return sms, nil
}

func (repo *marksRepository) CreateMarks(ctx context.Context, sm marks.StudentMarks) (marks.StudentMarks, error) {
	if _, err := repo.db.NamedExecContext(ctx, insertMarksQuery, toMarksRow(sm)); err != nil {
		return marks.StudentMarks{}, trapUniqueErr(errors.Wrap(err, "inserting marks"), marks.ErrMarksExist)
	}
	return sm, nil
}

func upsertMarks(ctx context.Context, db sqlx.ExtContext, sm marks.StudentMarks) (marks.StudentMarks, error) {
	rows, err := sqlx.NamedQueryContext(ctx, db, upsertMarksQuery, toMarksRow(sm))
	if err != nil {
		return marks.StudentMarks{}, errors.Wrap(err, "upserting marks")
	}
	defer func() { _ = rows.Close() }()

	var r marksRow
	if !rows.Next() {
		if err = rows.Err(); err == nil {
			err = errors.New("no row returned")
		}
		return marks.StudentMarks{}, errors.Wrap(err, "upserting marks")
	}
	if err = rows.StructScan(&r); err != nil {
		return marks.StudentMarks{}, errors.Wrap(err, "scanning marks")
	}
	return r.unrow(), nil
}

func (repo *marksRepository) UpsertMarks(ctx context.Context, sm marks.StudentMarks) (marks.StudentMarks, error) {
	return upsertMarks(ctx, repo.db, sm)
}

func (repo *marksRepository) UpsertMarksBatch(ctx context.Context, tenantID string, batch []marks.StudentMarks) ([]marks.StudentMarks, error) {
	saved := make([]marks.StudentMarks, 0, len(batch))
	err := inTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		for _, sm := range batch {
			sm.TenantID = tenantID
			s, err := upsertMarks(ctx, tx, sm)
			if err != nil {
				return err
			}
			saved = append(saved, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (repo *marksRepository) DeleteMarks(ctx context.Context, tenantID, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student_marks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return errors.Wrap(err, "deleting marks")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting marks")
	} else if n == 0 {
		return marks.ErrNotFound
	}
	return nil
}
