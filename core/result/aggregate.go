package result

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
)

// ExamResult is one student's result in one exam, over the subjects they have marks in.
type ExamResult struct {
	ExamID          string                `json:"exam_id"`
	StudentID       string                `json:"student_id"`
	RollNumber      string                `json:"roll_number,omitempty"`
	Subjects        []marks.SubjectResult `json:"subjects"`
	MissingSubjects []string              `json:"missing_subjects"` // exam subject ids without marks
	TotalMarks      float64               `json:"total_marks"`
	ObtainedMarks   float64               `json:"obtained_marks"`
	Percentage      float64               `json:"percentage"`
	Grade           string                `json:"grade"`
	GradePoints     float64               `json:"grade_points"`
	IsPassed        bool                  `json:"is_passed"`
	Rank            int                   `json:"rank,omitempty"`
}

// ClassSummary aggregates the results of a class in an exam.
// Students without marks are only counted in TotalStudents.
type ClassSummary struct {
	ExamID            string  `json:"exam_id"`
	ExamClassID       string  `json:"exam_class_id"`
	TotalStudents     int     `json:"total_students"`
	StudentsWithMarks int     `json:"students_with_marks"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	LowestPercentage  float64 `json:"lowest_percentage"`
	PassedStudents    int     `json:"passed_students"`
	FailedStudents    int     `json:"failed_students"`
	PassPercentage    float64 `json:"pass_percentage"`
}

// Aggregator combines subject results into exam results.
type Aggregator struct {
	calc   marks.Calculator
	scale  *grading.Scale
	policy core.GradingConfig
}

func NewAggregator(scale *grading.Scale, policy core.GradingConfig) Aggregator {
	return Aggregator{
		calc:   marks.NewCalculator(scale, policy.Precision),
		scale:  scale,
		policy: policy,
	}
}

// Aggregate computes a student's result over the exam subjects they are assessed on.
// Marks of other subjects are ignored. It returns nil when the student has no marks at all.
func (a Aggregator) Aggregate(examID, studentID string, subjects []exam.ExamSubject, sms []marks.StudentMarks) (*ExamResult, error) {
	bySubject := make(map[string]marks.StudentMarks, len(sms))
	for _, sm := range sms {
		if sm.StudentID == studentID {
			bySubject[sm.ExamSubjectID] = sm
		}
	}

	res := &ExamResult{
		ExamID:          examID,
		StudentID:       studentID,
		Subjects:        make([]marks.SubjectResult, 0, len(subjects)),
		MissingSubjects: make([]string, 0),
		IsPassed:        true,
	}
	for _, es := range subjects {
		sm, ok := bySubject[es.ID]
		if !ok {
			res.MissingSubjects = append(res.MissingSubjects, es.ID)
			continue
		}
		sr, err := a.calc.CalculateMarks(sm, es)
		if err != nil {
			return nil, err
		}
		res.Subjects = append(res.Subjects, sr)
		res.TotalMarks += es.MaxMarks
		res.ObtainedMarks += sm.MarksObtained
		res.IsPassed = res.IsPassed && sr.IsPassed
	}
	if len(res.Subjects) == 0 {
		return nil, nil
	}

	res.Percentage = grading.Percentage(res.ObtainedMarks, res.TotalMarks, a.policy.Precision)
	grade, err := a.scale.Resolve(res.Percentage)
	if err != nil {
		return nil, err
	}
	res.Grade = grade.Label
	res.GradePoints = grade.Points
	if a.policy.PassPolicy == core.PassPolicyPercentage {
		res.IsPassed = res.Percentage >= a.policy.PassPercentage
	}
	return res, nil
}

// Summarize aggregates the results of the students of a class having marks.
func Summarize(results []ExamResult, totalStudents, precision int) ClassSummary {
	sum := ClassSummary{TotalStudents: totalStudents, StudentsWithMarks: len(results)}
	if len(results) == 0 {
		return sum
	}

	var total float64
	sum.LowestPercentage = math.MaxFloat64
	for _, res := range results {
		total += res.Percentage
		if res.Percentage > sum.HighestPercentage {
			sum.HighestPercentage = res.Percentage
		}
		if res.Percentage < sum.LowestPercentage {
			sum.LowestPercentage = res.Percentage
		}
		if res.IsPassed {
			sum.PassedStudents++
		} else {
			sum.FailedStudents++
		}
	}
	n := float64(len(results))
	sum.AveragePercentage = grading.Round(total/n, precision)
	sum.PassPercentage = grading.Percentage(float64(sum.PassedStudents), n, precision)
	return sum
}

// Rank returns the results sorted best first with standard competition ranks: equal
// percentages (at precision) share a rank and the next one is 1 + the number of students above.
// Ties are listed by ascending roll number, then student id.
func Rank(results []ExamResult, precision int) []ExamResult {
	ranked := make([]ExamResult, len(results))
	copy(ranked, results)
	for i := range ranked {
		ranked[i].Percentage = grading.Round(ranked[i].Percentage, precision)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage > ranked[j].Percentage
		}
		if c := compareRollNumbers(ranked[i].RollNumber, ranked[j].RollNumber); c != 0 {
			return c < 0
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})
	for i := range ranked {
		if i > 0 && ranked[i].Percentage == ranked[i-1].Percentage {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}
	return ranked
}

// compareRollNumbers compares roll numbers numerically when both are numbers.
func compareRollNumbers(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na - nb
	}
	return strings.Compare(a, b)
}
