package dummydb

import (
	"context"
	"sort"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
)

type marksRepository struct {
	db *marksTable
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *DB) marks.Repository {
	return &marksRepository{db: db.marks}
}

// find must be called with the lock held.
func (repo *marksRepository) find(tenantID, examSubjectID, studentID string) *marks.StudentMarks {
	for _, sm := range repo.db.table {
		if sm.TenantID == tenantID && sm.ExamSubjectID == examSubjectID && sm.StudentID == studentID {
			return sm
		}
	}
	return nil
}

// upsert must be called with the write lock held.
func (repo *marksRepository) upsert(sm marks.StudentMarks) marks.StudentMarks {
	if orig := repo.find(sm.TenantID, sm.ExamSubjectID, sm.StudentID); orig != nil {
		sm.ID = orig.ID
		sm.CreatedAt = orig.CreatedAt
	}
	repo.db.table[sm.ID] = &sm
	return sm
}

func (repo *marksRepository) GetMarksByID(_ context.Context, tenantID, id string) (marks.StudentMarks, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sm, ok := repo.db.table[id]; ok && sm.TenantID == tenantID {
		return *sm, nil
	}
	return marks.StudentMarks{}, marks.ErrNotFound
}

func (repo *marksRepository) GetMarksBySubjectStudent(_ context.Context, tenantID, examSubjectID, studentID string) (marks.StudentMarks, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sm := repo.find(tenantID, examSubjectID, studentID); sm != nil {
		return *sm, nil
	}
	return marks.StudentMarks{}, marks.ErrNotFound
}

func (repo *marksRepository) QueryMarks(_ context.Context, tenantID string, filter marks.QueryFilter) ([]marks.StudentMarks, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subjects map[string]bool
	if len(filter.ExamSubjectIDs) > 0 {
		subjects = make(map[string]bool, len(filter.ExamSubjectIDs))
		for _, id := range filter.ExamSubjectIDs {
			subjects[id] = true
		}
	}

	sms := make([]marks.StudentMarks, 0)
	for _, sm := range repo.db.table {
		if sm.TenantID != tenantID {
			continue
		}
		if subjects != nil && !subjects[sm.ExamSubjectID] {
			continue
		}
		if filter.StudentID != "" && sm.StudentID != filter.StudentID {
			continue
		}
		sms = append(sms, *sm)
	}
	sort.Slice(sms, func(i, j int) bool {
		if sms[i].ExamSubjectID != sms[j].ExamSubjectID {
			return sms[i].ExamSubjectID < sms[j].ExamSubjectID
		}
		return sms[i].StudentID < sms[j].StudentID
	})
	return sms, nil
}

func (repo *marksRepository) CreateMarks(_ context.Context, sm marks.StudentMarks) (marks.StudentMarks, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.find(sm.TenantID, sm.ExamSubjectID, sm.StudentID) != nil {
		return marks.StudentMarks{}, marks.ErrMarksExist
	}
	repo.db.table[sm.ID] = &sm
	return sm, nil
}

func (repo *marksRepository) UpsertMarks(_ context.Context, sm marks.StudentMarks) (marks.StudentMarks, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.upsert(sm), nil
}

func (repo *marksRepository) UpsertMarksBatch(_ context.Context, tenantID string, sms []marks.StudentMarks) ([]marks.StudentMarks, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	saved := make([]marks.StudentMarks, 0, len(sms))
	for _, sm := range sms {
		sm.TenantID = tenantID
		saved = append(saved, repo.upsert(sm))
	}
	return saved, nil
}

func (repo *marksRepository) DeleteMarks(_ context.Context, tenantID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sm, ok := repo.db.table[id]
	if !ok || sm.TenantID != tenantID {
		return marks.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
