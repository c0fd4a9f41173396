package grading

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

type (
	Repository interface {
		QueryGradeScales(ctx context.Context, tenantID string) ([]GradeScale, error)
		// ReplaceGradeScales atomically swaps every range of the tenant for scales.
		ReplaceGradeScales(ctx context.Context, tenantID string, scales []GradeScale) error
	}

	Service struct {
		repo      Repository
		validate  *core.Validator
		precision int
	}
)

func NewService(repo Repository, validate *core.Validator, conf *core.Config) *Service {
	return &Service{repo: repo, validate: validate, precision: conf.Grading.Precision}
}

// ScaleFor loads and checks the caller tenant's scale.
func (svc *Service) ScaleFor(ctx context.Context, caller core.Caller) (*Scale, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}
	ranges, err := svc.repo.QueryGradeScales(ctx, caller.TenantID)
	if err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return nil, ErrScaleNotFound
	}
	return NewScale(ranges)
}

// Replace validates the new ranges as a whole and stores them in place of the tenant's scale.
// Stored marks keep their cached grades until they are regraded.
func (svc *Service) Replace(ctx context.Context, caller core.Caller, ngs []NewGradeScale) (*Scale, error) {
	if err := caller.Check(); err != nil {
		return nil, err
	}

	var flds []core.FieldError
	ranges := make([]GradeScale, 0, len(ngs))
	for i := range ngs {
		ngs[i].Clean()
		flds = append(flds, svc.validate.StructFields(ngs[i], fmt.Sprintf("ranges[%d]", i))...)
		ranges = append(ranges, GradeScale{
			ID:          uuid.New().String(),
			TenantID:    caller.TenantID,
			Grade:       ngs[i].Grade,
			MinMarks:    ngs[i].MinMarks,
			MaxMarks:    ngs[i].MaxMarks,
			GradePoints: ngs[i].GradePoints,
		})
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(ErrInvalidScale, flds...)
	}

	scale, err := NewScale(ranges)
	if err != nil {
		return nil, err
	}
	if err = svc.repo.ReplaceGradeScales(ctx, caller.TenantID, scale.Ranges()); err != nil {
		return nil, err
	}
	return scale, nil
}

// Gaps reports the uncovered intervals of the caller tenant's scale at the configured precision.
func (svc *Service) Gaps(ctx context.Context, caller core.Caller) ([]Gap, error) {
	scale, err := svc.ScaleFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	return scale.Gaps(svc.precision), nil
}

func (svc *Service) Precision() int { return svc.precision }
