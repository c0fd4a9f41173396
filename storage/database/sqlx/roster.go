package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

// Roster reads subjects and class enrollments from the tables the registry keeps in sync.
type Roster struct {
	db *sqlx.DB
}

var _ roster.Roster = (*Roster)(nil) // interface compliance check

func NewRoster(db *sqlx.DB) *Roster {
	return &Roster{db: db}
}

func (r *Roster) Subject(ctx context.Context, tenantID, subjectID string) (roster.Subject, error) {
	var subj roster.Subject
	q := `SELECT id, name, credit FROM subject WHERE tenant_id = $1 AND id = $2`
	if err := r.db.QueryRowxContext(ctx, q, tenantID, subjectID).Scan(&subj.ID, &subj.Name, &subj.Credit); err != nil {
		return roster.Subject{}, trapNoRowsErr(errors.Wrap(err, "selecting subject"), roster.ErrSubjectNotFound)
	}
	return subj, nil
}

func (r *Roster) ClassStudents(ctx context.Context, tenantID, classID string) ([]roster.Student, error) {
	q := `SELECT student_id, roll_number FROM class_student WHERE tenant_id = $1 AND class_id = $2 ORDER BY student_id`
	rows, err := r.db.QueryxContext(ctx, q, tenantID, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	defer func() { _ = rows.Close() }()

	students := make([]roster.Student, 0)
	for rows.Next() {
		var st roster.Student
		if err = rows.Scan(&st.ID, &st.RollNumber); err != nil {
			return nil, errors.Wrap(err, "scanning class student")
		}
		students = append(students, st)
	}
	return students, errors.Wrap(rows.Err(), "querying class students")
}

func (r *Roster) IsEnrolled(ctx context.Context, tenantID, classID, studentID string) (bool, error) {
	var enrolled bool
	q := `SELECT EXISTS (SELECT 1 FROM class_student WHERE tenant_id = $1 AND class_id = $2 AND student_id = $3)`
	if err := r.db.GetContext(ctx, &enrolled, q, tenantID, classID, studentID); err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return enrolled, nil
}

// UpsertSubject creates or updates a subject.
func (r *Roster) UpsertSubject(ctx context.Context, tenantID string, subj roster.Subject) error {
	q := `INSERT INTO subject (id, tenant_id, name, credit) VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, id) DO UPDATE SET name = EXCLUDED.name, credit = EXCLUDED.credit`
	_, err := r.db.ExecContext(ctx, q, subj.ID, tenantID, subj.Name, subj.Credit)
	return errors.Wrap(err, "upserting subject")
}

// Enroll adds students to a class, updating the roll numbers of those already in it.
func (r *Roster) Enroll(ctx context.Context, tenantID, classID string, students ...roster.Student) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO class_student (tenant_id, class_id, student_id, roll_number) VALUES ($1, $2, $3, $4)
			ON CONFLICT (tenant_id, class_id, student_id) DO UPDATE SET roll_number = EXCLUDED.roll_number`
		for _, st := range students {
			if _, err := tx.ExecContext(ctx, q, tenantID, classID, st.ID, st.RollNumber); err != nil {
				return errors.Wrap(err, "enrolling student")
			}
		}
		return nil
	})
}
