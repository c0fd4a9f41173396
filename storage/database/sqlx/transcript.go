package sqlxrepos

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

type transcriptRow struct {
	ID             string      `db:"id"`
	TenantID       string      `db:"tenant_id"`
	StudentID      string      `db:"student_id"`
	AcademicYearID string      `db:"academic_year_id"`
	CGPA           float64     `db:"cgpa"`
	TotalCredits   float64     `db:"total_credits"`
	ResultStatus   string      `db:"result_status"`
	Published      bool        `db:"published"`
	ApprovedBy     null.String `db:"approved_by"`
	PublishedAt    null.Time   `db:"published_at"`
	Remarks        null.String `db:"remarks"`
	Lines          null.JSON   `db:"lines"`
	GeneratedAt    time.Time   `db:"generated_at"`
}

func toTranscriptRow(t transcript.Transcript) (transcriptRow, error) {
	lines := t.Lines
	if lines == nil {
		lines = make([]transcript.Line, 0)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return transcriptRow{}, errors.Wrap(err, "encoding transcript lines")
	}
	return transcriptRow{
		ID:             t.ID,
		TenantID:       t.TenantID,
		StudentID:      t.StudentID,
		AcademicYearID: t.AcademicYearID,
		CGPA:           t.CGPA,
		TotalCredits:   t.TotalCredits,
		ResultStatus:   string(t.ResultStatus),
		Published:      t.Published,
		ApprovedBy:     null.NewString(t.ApprovedBy, t.ApprovedBy != ""),
		PublishedAt:    null.TimeFromPtr(t.PublishedAt),
		Remarks:        null.NewString(t.Remarks, t.Remarks != ""),
		Lines:          null.JSONFrom(raw),
		GeneratedAt:    t.GeneratedAt.UTC(),
	}, nil
}

func (r transcriptRow) unrow() (transcript.Transcript, error) {
	t := transcript.Transcript{
		ID:             r.ID,
		TenantID:       r.TenantID,
		StudentID:      r.StudentID,
		AcademicYearID: r.AcademicYearID,
		CGPA:           r.CGPA,
		TotalCredits:   r.TotalCredits,
		ResultStatus:   transcript.ResultStatus(r.ResultStatus),
		Published:      r.Published,
		ApprovedBy:     r.ApprovedBy.String,
		Remarks:        r.Remarks.String,
		Lines:          make([]transcript.Line, 0),
		GeneratedAt:    r.GeneratedAt.UTC(),
	}
	if r.PublishedAt.Valid {
		at := r.PublishedAt.Time.UTC()
		t.PublishedAt = &at
	}
	if r.Lines.Valid {
		if err := r.Lines.Unmarshal(&t.Lines); err != nil {
			return transcript.Transcript{}, errors.Wrap(err, "decoding transcript lines")
		}
	}
	return t, nil
}

type transcriptRepository struct {
	db *sqlx.DB
}

var _ transcript.Repository = (*transcriptRepository)(nil) // interface compliance check

func NewTranscriptRepository(db *sqlx.DB) transcript.Repository {
	return &transcriptRepository{db: db}
}

func (repo *transcriptRepository) get(ctx context.Context, q string, args ...interface{}) (transcript.Transcript, error) {
	var r transcriptRow
	if err := repo.db.GetContext(ctx, &r, q, args...); err != nil {
		return transcript.Transcript{}, trapNoRowsErr(errors.Wrap(err, "selecting transcript"), transcript.ErrNotFound)
	}
	return r.unrow()
}

func (repo *transcriptRepository) GetTranscriptByID(ctx context.Context, tenantID, id string) (transcript.Transcript, error) {
	return repo.get(ctx, `SELECT * FROM student_transcript WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (repo *transcriptRepository) GetTranscriptByStudentYear(ctx context.Context, tenantID, studentID, academicYearID string) (transcript.Transcript, error) {
	q := `SELECT * FROM student_transcript WHERE tenant_id = $1 AND student_id = $2 AND academic_year_id = $3`
	return repo.get(ctx, q, tenantID, studentID, academicYearID)
}

func (repo *transcriptRepository) QueryTranscripts(
	ctx context.Context,
	tenantID string,
	filter transcript.QueryFilter,
	ordering []core.DBOrdering,
) ([]transcript.Transcript, error) {
	conds := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": tenantID}
	if filter.AcademicYearID != "" {
		conds = append(conds, "academic_year_id = :academic_year_id")
		args["academic_year_id"] = filter.AcademicYearID
	}
	if filter.StudentID != "" {
		conds = append(conds, "student_id = :student_id")
		args["student_id"] = filter.StudentID
	}
	if filter.Published != nil {
		conds = append(conds, "published = :published")
		args["published"] = *filter.Published
	}
	if filter.ResultStatus != "" {
		conds = append(conds, "result_status = :result_status")
		args["result_status"] = string(filter.ResultStatus)
	}

	// orderings were cleaned against transcript.OrderingFields
	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		orderBy = append(orderBy, ord.String())
	}
	orderBy = append(orderBy, "id ASC")

	q := `SELECT * FROM student_transcript WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY ` + strings.Join(orderBy, ", ")
	rows, err := repo.db.NamedQueryContext(ctx, q, args)
	if err != nil {
		return nil, errors.Wrap(err, "querying transcripts")
	}
	defer func() { _ = rows.Close() }()

	ts := make([]transcript.Transcript, 0)
	for rows.Next() {
		var r transcriptRow
		if err = rows.StructScan(&r); err != nil {
			return nil, errors.Wrap(err, "scanning transcript")
		}
		t, err := r.unrow()
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, errors.Wrap(rows.Err(), "querying transcripts")
}

func (repo *transcriptRepository) CreateTranscript(ctx context.Context, t transcript.Transcript) (transcript.Transcript, error) {
	r, err := toTranscriptRow(t)
	if err != nil {
		return transcript.Transcript{}, err
	}
	q := `INSERT INTO student_transcript
		(id, tenant_id, student_id, academic_year_id, cgpa, total_credits, result_status, published,
			approved_by, published_at, remarks, lines, generated_at)
		VALUES (:id, :tenant_id, :student_id, :academic_year_id, :cgpa, :total_credits, :result_status, :published,
			:approved_by, :published_at, :remarks, :lines, :generated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, r); err != nil {
		return transcript.Transcript{}, trapUniqueErr(errors.Wrap(err, "inserting transcript"), transcript.ErrExists)
	}
	return repo.GetTranscriptByID(ctx, t.TenantID, t.ID)
}

// conditional runs a conditional UPDATE ... RETURNING *. When no row matches, it tells a
// missing transcript from one in the wrong state.
func (repo *transcriptRepository) conditional(
	ctx context.Context,
	tenantID, id string,
	stateErr error,
	q string,
	arg interface{},
) (transcript.Transcript, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, arg)
	if err != nil {
		return transcript.Transcript{}, errors.Wrap(err, "updating transcript")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		var r transcriptRow
		if err = rows.StructScan(&r); err != nil {
			return transcript.Transcript{}, errors.Wrap(err, "scanning transcript")
		}
		return r.unrow()
	}
	if err = rows.Err(); err != nil {
		return transcript.Transcript{}, errors.Wrap(err, "updating transcript")
	}

	if _, err = repo.GetTranscriptByID(ctx, tenantID, id); err != nil {
		return transcript.Transcript{}, err
	}
	return transcript.Transcript{}, stateErr
}

func (repo *transcriptRepository) UpdateDraft(ctx context.Context, t transcript.Transcript) (transcript.Transcript, error) {
	r, err := toTranscriptRow(t)
	if err != nil {
		return transcript.Transcript{}, err
	}
	q := `UPDATE student_transcript SET
			cgpa = :cgpa, total_credits = :total_credits, result_status = :result_status,
			lines = :lines, generated_at = :generated_at
		WHERE tenant_id = :tenant_id AND id = :id AND published = FALSE
		RETURNING *`
	return repo.conditional(ctx, t.TenantID, t.ID, transcript.ErrPublished, q, r)
}

func (repo *transcriptRepository) SetPublished(ctx context.Context, tenantID, id string, pub transcript.Publication) (transcript.Transcript, error) {
	q := `UPDATE student_transcript SET
			published = TRUE, published_at = :published_at, result_status = :result_status,
			remarks = :remarks, approved_by = :approved_by
		WHERE tenant_id = :tenant_id AND id = :id AND published = FALSE
		RETURNING *`
	arg := map[string]interface{}{
		"tenant_id":     tenantID,
		"id":            id,
		"published_at":  pub.PublishedAt.UTC(),
		"result_status": string(pub.ResultStatus),
		"remarks":       null.NewString(pub.Remarks, pub.Remarks != ""),
		"approved_by":   null.NewString(pub.ApprovedBy, pub.ApprovedBy != ""),
	}
	return repo.conditional(ctx, tenantID, id, transcript.ErrAlreadyPublished, q, arg)
}

func (repo *transcriptRepository) SetUnpublished(ctx context.Context, tenantID, id string) (transcript.Transcript, error) {
	q := `UPDATE student_transcript SET published = FALSE, published_at = NULL
		WHERE tenant_id = :tenant_id AND id = :id AND published = TRUE
		RETURNING *`
	arg := map[string]interface{}{"tenant_id": tenantID, "id": id}
	return repo.conditional(ctx, tenantID, id, transcript.ErrNotPublished, q, arg)
}

func (repo *transcriptRepository) QueryDraftTenants(ctx context.Context) ([]string, error) {
	var tenants []string
	q := `SELECT DISTINCT tenant_id FROM student_transcript WHERE published = FALSE ORDER BY tenant_id`
	if err := repo.db.SelectContext(ctx, &tenants, q); err != nil {
		return nil, errors.Wrap(err, "querying draft tenants")
	}
	return tenants, nil
}
