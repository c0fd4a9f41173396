// Package roster describes what the grading core consumes from the academic roster:
// subject credits and class membership. The roster itself is managed elsewhere.
package roster

import (
	"context"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

var (
	// errors
	ErrSubjectNotFound = core.NewError(core.ErrNotFound, "subject not found")
	ErrNotEnrolled     = core.NewError(core.ErrNotFound, "student is not enrolled in this class")
)

type (
	Subject struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Credit float64 `json:"credit"`
	}

	Student struct {
		ID         string `json:"id"`
		RollNumber string `json:"roll_number"`
	}

	Roster interface {
		Subject(ctx context.Context, tenantID, subjectID string) (Subject, error)
		// ClassStudents lists the students enrolled in a class, in no particular order.
		ClassStudents(ctx context.Context, tenantID, classID string) ([]Student, error)
		IsEnrolled(ctx context.Context, tenantID, classID, studentID string) (bool, error)
	}
)
