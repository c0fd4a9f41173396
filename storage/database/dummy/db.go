package dummydb

import (
	"sync"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

type (
	// DB is an in-memory store. Every table is guarded by its own lock.
	DB struct {
		gradeScale *gradeScaleTable
		exam       *examTable
		marks      *marksTable
		transcript *transcriptTable
		roster     *rosterTable
	}

	gradeScaleTable struct {
		sync.RWMutex
		table map[string][]grading.GradeScale // {tenantID: ranges}
	}

	examTable struct {
		sync.RWMutex
		exams    map[string]*exam.Exam
		classes  map[string]*exam.ExamClass
		subjects map[string]*exam.ExamSubject
	}

	marksTable struct {
		sync.RWMutex
		table map[string]*marks.StudentMarks
	}

	transcriptTable struct {
		sync.RWMutex
		table map[string]*transcript.Transcript
	}

	rosterTable struct {
		sync.RWMutex
		subjects map[string]map[string]roster.Subject   // {tenantID: {subjectID: Subject}}
		classes  map[string]map[string][]roster.Student // {tenantID: {classID: students}}
	}
)

func Open() (*DB, error) {
	db := &DB{
		gradeScale: &gradeScaleTable{table: make(map[string][]grading.GradeScale)},
		exam: &examTable{
			exams:    make(map[string]*exam.Exam),
			classes:  make(map[string]*exam.ExamClass),
			subjects: make(map[string]*exam.ExamSubject),
		},
		marks:      &marksTable{table: make(map[string]*marks.StudentMarks)},
		transcript: &transcriptTable{table: make(map[string]*transcript.Transcript)},
		roster: &rosterTable{
			subjects: make(map[string]map[string]roster.Subject),
			classes:  make(map[string]map[string][]roster.Student),
		},
	}
	return db, nil
}
