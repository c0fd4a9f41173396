package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

type transcriptRepository struct {
	db *transcriptTable
}

var _ transcript.Repository = (*transcriptRepository)(nil) // interface compliance check

func NewTranscriptRepository(db *DB) transcript.Repository {
	return &transcriptRepository{db: db.transcript}
}

func clone(t transcript.Transcript) transcript.Transcript {
	t.Lines = append([]transcript.Line(nil), t.Lines...)
	if t.PublishedAt != nil {
		at := *t.PublishedAt
		t.PublishedAt = &at
	}
	return t
}

func (repo *transcriptRepository) GetTranscriptByID(_ context.Context, tenantID, id string) (transcript.Transcript, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok && t.TenantID == tenantID {
		return clone(*t), nil
	}
	return transcript.Transcript{}, transcript.ErrNotFound
}

func (repo *transcriptRepository) GetTranscriptByStudentYear(_ context.Context, tenantID, studentID, academicYearID string) (transcript.Transcript, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.TenantID == tenantID && t.StudentID == studentID && t.AcademicYearID == academicYearID {
			return clone(*t), nil
		}
	}
	return transcript.Transcript{}, transcript.ErrNotFound
}

func (repo *transcriptRepository) QueryTranscripts(
	_ context.Context,
	tenantID string,
	filter transcript.QueryFilter,
	ordering []core.DBOrdering,
) ([]transcript.Transcript, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ts := make([]transcript.Transcript, 0)
	for _, t := range repo.db.table {
		if t.TenantID != tenantID {
			continue
		}
		if filter.AcademicYearID != "" && t.AcademicYearID != filter.AcademicYearID {
			continue
		}
		if filter.StudentID != "" && t.StudentID != filter.StudentID {
			continue
		}
		if filter.Published != nil && t.Published != *filter.Published {
			continue
		}
		if filter.ResultStatus != "" && t.ResultStatus != filter.ResultStatus {
			continue
		}
		ts = append(ts, clone(*t))
	}

	sort.SliceStable(ts, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareTranscripts(ts[i], ts[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return ts[i].ID < ts[j].ID
	})
	return ts, nil
}

func compareTranscripts(a, b transcript.Transcript, field string) int {
	switch field {
	case "cgpa":
		switch {
		case a.CGPA < b.CGPA:
			return -1
		case a.CGPA > b.CGPA:
			return 1
		}
	case "student_id":
		return strings.Compare(a.StudentID, b.StudentID)
	case "generated_at":
		return compareTimes(a.GeneratedAt.UnixNano(), b.GeneratedAt.UnixNano())
	case "published_at":
		var pa, pb int64
		if a.PublishedAt != nil {
			pa = a.PublishedAt.UnixNano()
		}
		if b.PublishedAt != nil {
			pb = b.PublishedAt.UnixNano()
		}
		return compareTimes(pa, pb)
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *transcriptRepository) CreateTranscript(_ context.Context, t transcript.Transcript) (transcript.Transcript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.table {
		if other.TenantID == t.TenantID && other.StudentID == t.StudentID && other.AcademicYearID == t.AcademicYearID {
			return transcript.Transcript{}, transcript.ErrExists
		}
	}
	t = clone(t)
	repo.db.table[t.ID] = &t
	return clone(t), nil
}

func (repo *transcriptRepository) UpdateDraft(_ context.Context, t transcript.Transcript) (transcript.Transcript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[t.ID]
	if !ok || orig.TenantID != t.TenantID {
		return transcript.Transcript{}, transcript.ErrNotFound
	}
	if orig.Published {
		return transcript.Transcript{}, transcript.ErrPublished
	}
	orig.CGPA = t.CGPA
	orig.TotalCredits = t.TotalCredits
	orig.ResultStatus = t.ResultStatus
	orig.Lines = append([]transcript.Line(nil), t.Lines...)
	orig.GeneratedAt = t.GeneratedAt
	return clone(*orig), nil
}

func (repo *transcriptRepository) SetPublished(_ context.Context, tenantID, id string, pub transcript.Publication) (transcript.Transcript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok || t.TenantID != tenantID {
		return transcript.Transcript{}, transcript.ErrNotFound
	}
	if t.Published {
		return transcript.Transcript{}, transcript.ErrAlreadyPublished
	}
	publishedAt := pub.PublishedAt
	t.Published = true
	t.PublishedAt = &publishedAt
	t.ResultStatus = pub.ResultStatus
	t.Remarks = pub.Remarks
	t.ApprovedBy = pub.ApprovedBy
	return clone(*t), nil
}

func (repo *transcriptRepository) SetUnpublished(_ context.Context, tenantID, id string) (transcript.Transcript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok || t.TenantID != tenantID {
		return transcript.Transcript{}, transcript.ErrNotFound
	}
	if !t.Published {
		return transcript.Transcript{}, transcript.ErrNotPublished
	}
	t.Published = false
	t.PublishedAt = nil
	return clone(*t), nil
}

func (repo *transcriptRepository) QueryDraftTenants(_ context.Context) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	tenants := make([]string, 0)
	for _, t := range repo.db.table {
		if !t.Published && !seen[t.TenantID] {
			seen[t.TenantID] = true
			tenants = append(tenants, t.TenantID)
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}
