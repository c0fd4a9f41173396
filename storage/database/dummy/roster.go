package dummydb

import (
	"context"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

// Roster serves the roster from memory. It is seeded with AddSubject and Enroll.
type Roster struct {
	db *rosterTable
}

var _ roster.Roster = (*Roster)(nil) // interface compliance check

func NewRoster(db *DB) *Roster {
	return &Roster{db: db.roster}
}

func (r *Roster) AddSubject(tenantID string, subj roster.Subject) {
	r.db.Lock()
	defer r.db.Unlock()

	if r.db.subjects[tenantID] == nil {
		r.db.subjects[tenantID] = make(map[string]roster.Subject)
	}
	r.db.subjects[tenantID][subj.ID] = subj
}

// Enroll adds students to a class, replacing those already enrolled with the same ID.
func (r *Roster) Enroll(tenantID, classID string, students ...roster.Student) {
	r.db.Lock()
	defer r.db.Unlock()

	if r.db.classes[tenantID] == nil {
		r.db.classes[tenantID] = make(map[string][]roster.Student)
	}
	enrolled := r.db.classes[tenantID][classID]
	for _, st := range students {
		replaced := false
		for i := range enrolled {
			if enrolled[i].ID == st.ID {
				enrolled[i] = st
				replaced = true
			}
		}
		if !replaced {
			enrolled = append(enrolled, st)
		}
	}
	r.db.classes[tenantID][classID] = enrolled
}

func (r *Roster) Subject(_ context.Context, tenantID, subjectID string) (roster.Subject, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if subj, ok := r.db.subjects[tenantID][subjectID]; ok {
		return subj, nil
	}
	return roster.Subject{}, roster.ErrSubjectNotFound
}

func (r *Roster) ClassStudents(_ context.Context, tenantID, classID string) ([]roster.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	students := make([]roster.Student, len(r.db.classes[tenantID][classID]))
	copy(students, r.db.classes[tenantID][classID])
	return students, nil
}

func (r *Roster) IsEnrolled(_ context.Context, tenantID, classID, studentID string) (bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	for _, st := range r.db.classes[tenantID][classID] {
		if st.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}
