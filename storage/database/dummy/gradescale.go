package dummydb

import (
	"context"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
)

type gradeScaleRepository struct {
	db *gradeScaleTable
}

var _ grading.Repository = (*gradeScaleRepository)(nil) // interface compliance check

func NewGradeScaleRepository(db *DB) grading.Repository {
	return &gradeScaleRepository{db: db.gradeScale}
}

func (repo *gradeScaleRepository) QueryGradeScales(_ context.Context, tenantID string) ([]grading.GradeScale, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ranges := make([]grading.GradeScale, len(repo.db.table[tenantID]))
	copy(ranges, repo.db.table[tenantID])
	return ranges, nil
}

func (repo *gradeScaleRepository) ReplaceGradeScales(_ context.Context, tenantID string, scales []grading.GradeScale) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	ranges := make([]grading.GradeScale, len(scales))
	copy(ranges, scales)
	for i := range ranges {
		ranges[i].TenantID = tenantID
	}
	repo.db.table[tenantID] = ranges
	return nil
}
