package dummydb

import (
	"context"
	"sort"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) CreateExam(_ context.Context, ex exam.Exam) (exam.Exam, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.exams[ex.ID] = &ex
	return ex, nil
}

func (repo *examRepository) GetExamByID(_ context.Context, tenantID, id string) (exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ex, ok := repo.db.exams[id]; ok && ex.TenantID == tenantID {
		return *ex, nil
	}
	return exam.Exam{}, exam.ErrNotFound
}

func (repo *examRepository) QueryExams(_ context.Context, tenantID string, filter exam.QueryFilter) ([]exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exams := make([]exam.Exam, 0)
	for _, ex := range repo.db.exams {
		if ex.TenantID != tenantID {
			continue
		}
		if filter.AcademicYearID != "" && ex.AcademicYearID != filter.AcademicYearID {
			continue
		}
		if !filter.StartFrom.IsZero() && ex.StartDate.Before(filter.StartFrom.UTC()) {
			continue
		}
		if !filter.StartTo.IsZero() && ex.StartDate.After(filter.StartTo.UTC()) {
			continue
		}
		exams = append(exams, *ex)
	}
	sort.Slice(exams, func(i, j int) bool {
		if !exams[i].StartDate.Equal(exams[j].StartDate) {
			return exams[i].StartDate.Before(exams[j].StartDate)
		}
		return exams[i].ID < exams[j].ID
	})
	return exams, nil
}

func (repo *examRepository) CreateExamClass(_ context.Context, ec exam.ExamClass) (exam.ExamClass, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, c := range repo.db.classes {
		if c.TenantID == ec.TenantID && c.ExamID == ec.ExamID && c.ClassID == ec.ClassID {
			return exam.ExamClass{}, exam.ErrClassExists
		}
	}
	repo.db.classes[ec.ID] = &ec
	return ec, nil
}

func (repo *examRepository) GetExamClassByID(_ context.Context, tenantID, id string) (exam.ExamClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ec, ok := repo.db.classes[id]; ok && ec.TenantID == tenantID {
		return *ec, nil
	}
	return exam.ExamClass{}, exam.ErrClassNotFound
}

func (repo *examRepository) QueryExamClasses(_ context.Context, tenantID, examID string) ([]exam.ExamClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]exam.ExamClass, 0)
	for _, ec := range repo.db.classes {
		if ec.TenantID == tenantID && ec.ExamID == examID {
			classes = append(classes, *ec)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ClassID < classes[j].ClassID })
	return classes, nil
}

func (repo *examRepository) CreateExamSubject(_ context.Context, es exam.ExamSubject) (exam.ExamSubject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.subjects {
		if s.TenantID == es.TenantID && s.ExamClassID == es.ExamClassID && s.SubjectID == es.SubjectID {
			return exam.ExamSubject{}, exam.ErrSubjectExists
		}
	}
	repo.db.subjects[es.ID] = &es
	return es, nil
}

func (repo *examRepository) GetExamSubjectByID(_ context.Context, tenantID, id string) (exam.ExamSubject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if es, ok := repo.db.subjects[id]; ok && es.TenantID == tenantID {
		return *es, nil
	}
	return exam.ExamSubject{}, exam.ErrSubjectNotFound
}

func (repo *examRepository) QueryExamSubjects(_ context.Context, tenantID string, examClassIDs ...string) ([]exam.ExamSubject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(examClassIDs))
	for _, id := range examClassIDs {
		wanted[id] = true
	}
	subjects := make([]exam.ExamSubject, 0)
	for _, es := range repo.db.subjects {
		if es.TenantID == tenantID && wanted[es.ExamClassID] {
			subjects = append(subjects, *es)
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].ExamClassID != subjects[j].ExamClassID {
			return subjects[i].ExamClassID < subjects[j].ExamClassID
		}
		return subjects[i].SubjectID < subjects[j].SubjectID
	})
	return subjects, nil
}
