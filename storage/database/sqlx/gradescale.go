package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
)

type gradeScaleRow struct {
	ID          string  `db:"id"`
	TenantID    string  `db:"tenant_id"`
	Grade       string  `db:"grade"`
	MinMarks    float64 `db:"min_marks"`
	MaxMarks    float64 `db:"max_marks"`
	GradePoints float64 `db:"grade_points"`
}

type gradeScaleRepository struct {
	db *sqlx.DB
}

var _ grading.Repository = (*gradeScaleRepository)(nil) // interface compliance check

func NewGradeScaleRepository(db *sqlx.DB) grading.Repository {
	return &gradeScaleRepository{db: db}
}

func (repo *gradeScaleRepository) QueryGradeScales(ctx context.Context, tenantID string) ([]grading.GradeScale, error) {
	var rows []gradeScaleRow
	q := `SELECT id, tenant_id, grade, min_marks, max_marks, grade_points
		FROM grade_scale WHERE tenant_id = $1 ORDER BY min_marks`
	if err := repo.db.SelectContext(ctx, &rows, q, tenantID); err != nil {
		return nil, errors.Wrap(err, "querying grade scales")
	}

	ranges := make([]grading.GradeScale, 0, len(rows))
	for _, r := range rows {
		ranges = append(ranges, grading.GradeScale(r))
	}
	return ranges, nil
}

func (repo *gradeScaleRepository) ReplaceGradeScales(ctx context.Context, tenantID string, scales []grading.GradeScale) error {
	return inTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM grade_scale WHERE tenant_id = $1`, tenantID); err != nil {
			return errors.Wrap(err, "deleting grade scales")
		}
		if len(scales) == 0 {
			return nil
		}

		rows := make([]gradeScaleRow, 0, len(scales))
		for _, gs := range scales {
			gs.TenantID = tenantID
			rows = append(rows, gradeScaleRow(gs))
		}
		q := `INSERT INTO grade_scale (id, tenant_id, grade, min_marks, max_marks, grade_points)
			VALUES (:id, :tenant_id, :grade, :min_marks, :max_marks, :grade_points)`
		if _, err := tx.NamedExecContext(ctx, q, rows); err != nil {
			return errors.Wrap(err, "inserting grade scales")
		}
		return nil
	})
}
