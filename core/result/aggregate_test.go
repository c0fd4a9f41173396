package result

import (
	"reflect"
	"testing"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
)

func newScale(t *testing.T) *grading.Scale {
	scale, err := grading.NewScale([]grading.GradeScale{
		{ID: "a", Grade: "A", MinMarks: 90, MaxMarks: 100, GradePoints: 10},
		{ID: "b", Grade: "B", MinMarks: 75, MaxMarks: 89.99, GradePoints: 8},
		{ID: "c", Grade: "C", MinMarks: 60, MaxMarks: 74.99, GradePoints: 6},
		{ID: "d", Grade: "D", MinMarks: 40, MaxMarks: 59.99, GradePoints: 4},
		{ID: "f", Grade: "F", MinMarks: 0, MaxMarks: 39.99, GradePoints: 0},
	})
	if err != nil {
		t.Fatalf("NewScale() error = %v", err)
	}
	return scale
}

var subjects = []exam.ExamSubject{
	{ID: "es-maths", SubjectID: "maths", MaxMarks: 100, PassMarks: 40},
	{ID: "es-physics", SubjectID: "physics", MaxMarks: 50, PassMarks: 20},
}

func TestAggregator_Aggregate(t *testing.T) {
	scale := newScale(t)
	percentPolicy := core.DefaultGradingConfig()
	percentPolicy.PassPolicy = core.PassPolicyPercentage
	percentPolicy.PassPercentage = 50

	tests := []struct {
		name        string
		policy      core.GradingConfig
		sms         []marks.StudentMarks
		wantNil     bool
		wantPct     float64
		wantGrade   string
		wantPassed  bool
		wantMissing []string
	}{
		{
			name:    "no marks",
			policy:  core.DefaultGradingConfig(),
			wantNil: true,
		},
		{
			name:   "every subject passed",
			policy: core.DefaultGradingConfig(),
			sms: []marks.StudentMarks{
				{StudentID: "s1", ExamSubjectID: "es-maths", MarksObtained: 80},
				{StudentID: "s1", ExamSubjectID: "es-physics", MarksObtained: 40},
			},
			wantPct:     80,
			wantGrade:   "B",
			wantPassed:  true,
			wantMissing: []string{},
		},
		{
			name:   "one failed subject fails the exam",
			policy: core.DefaultGradingConfig(),
			sms: []marks.StudentMarks{
				{StudentID: "s1", ExamSubjectID: "es-maths", MarksObtained: 95},
				{StudentID: "s1", ExamSubjectID: "es-physics", MarksObtained: 10},
			},
			wantPct:     70,
			wantGrade:   "C",
			wantPassed:  false,
			wantMissing: []string{},
		},
		{
			name:   "percentage policy ignores the failed subject",
			policy: percentPolicy,
			sms: []marks.StudentMarks{
				{StudentID: "s1", ExamSubjectID: "es-maths", MarksObtained: 95},
				{StudentID: "s1", ExamSubjectID: "es-physics", MarksObtained: 10},
			},
			wantPct:     70,
			wantGrade:   "C",
			wantPassed:  true,
			wantMissing: []string{},
		},
		{
			name:   "missing subjects are reported and left out",
			policy: core.DefaultGradingConfig(),
			sms: []marks.StudentMarks{
				{StudentID: "s1", ExamSubjectID: "es-physics", MarksObtained: 30},
				{StudentID: "s2", ExamSubjectID: "es-maths", MarksObtained: 100},
				{StudentID: "s1", ExamSubjectID: "es-history", MarksObtained: 100},
			},
			wantPct:     60,
			wantGrade:   "C",
			wantPassed:  true,
			wantMissing: []string{"es-maths"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewAggregator(scale, tt.policy).Aggregate("ex-1", "s1", subjects, tt.sms)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if tt.wantNil {
				if res != nil {
					t.Errorf("Aggregate() = %+v, want nil", res)
				}
				return
			}
			if res == nil {
				t.Fatal("Aggregate() = nil")
			}
			if res.Percentage != tt.wantPct {
				t.Errorf("Percentage = %v, want %v", res.Percentage, tt.wantPct)
			}
			if res.Grade != tt.wantGrade {
				t.Errorf("Grade = %v, want %v", res.Grade, tt.wantGrade)
			}
			if res.IsPassed != tt.wantPassed {
				t.Errorf("IsPassed = %v, want %v", res.IsPassed, tt.wantPassed)
			}
			if !reflect.DeepEqual(res.MissingSubjects, tt.wantMissing) {
				t.Errorf("MissingSubjects = %v, want %v", res.MissingSubjects, tt.wantMissing)
			}
			if res.TotalMarks < res.ObtainedMarks {
				t.Errorf("ObtainedMarks = %v exceeds TotalMarks = %v", res.ObtainedMarks, res.TotalMarks)
			}
		})
	}
}

func TestRank(t *testing.T) {
	results := []ExamResult{
		{StudentID: "s4", RollNumber: "10", Percentage: 70},
		{StudentID: "s2", RollNumber: "2", Percentage: 70},
		{StudentID: "s1", RollNumber: "1", Percentage: 90},
		{StudentID: "s5", RollNumber: "5", Percentage: 55.5},
		{StudentID: "s3", RollNumber: "3", Percentage: 70.001},
	}
	in := make([]ExamResult, len(results))
	copy(in, results)

	ranked := Rank(results, 2)

	type row struct {
		id   string
		rank int
	}
	want := []row{{"s1", 1}, {"s2", 2}, {"s3", 2}, {"s4", 2}, {"s5", 5}}
	if len(ranked) != len(want) {
		t.Fatalf("Rank() returned %d results, want %d", len(ranked), len(want))
	}
	for i, w := range want {
		if ranked[i].StudentID != w.id || ranked[i].Rank != w.rank {
			t.Errorf("ranked[%d] = (%s, %d), want (%s, %d)", i, ranked[i].StudentID, ranked[i].Rank, w.id, w.rank)
		}
	}
	if !reflect.DeepEqual(results, in) {
		t.Error("Rank() modified its input")
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Percentage > ranked[i-1].Percentage {
			t.Errorf("ranked[%d] is above ranked[%d]", i, i-1)
		}
		if ranked[i].Rank < ranked[i-1].Rank {
			t.Errorf("ranks are not monotonic at %d", i)
		}
	}
}

func TestCompareRollNumbers(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"07", "7", 0},
		{"A2", "A10", 1},
		{"", "1", -1},
	}
	for _, tt := range tests {
		got := compareRollNumbers(tt.a, tt.b)
		switch {
		case tt.want < 0 && got >= 0, tt.want > 0 && got <= 0, tt.want == 0 && got != 0:
			t.Errorf("compareRollNumbers(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := Summarize(nil, 4, 2)
		want := ClassSummary{TotalStudents: 4}
		if got != want {
			t.Errorf("Summarize() = %+v, want %+v", got, want)
		}
	})

	t.Run("partial class", func(t *testing.T) {
		results := []ExamResult{
			{StudentID: "s1", Percentage: 90, IsPassed: true},
			{StudentID: "s2", Percentage: 70, IsPassed: true},
			{StudentID: "s3", Percentage: 70, IsPassed: false},
		}
		got := Summarize(results, 5, 2)
		want := ClassSummary{
			TotalStudents:     5,
			StudentsWithMarks: 3,
			AveragePercentage: 76.67,
			HighestPercentage: 90,
			LowestPercentage:  70,
			PassedStudents:    2,
			FailedStudents:    1,
			PassPercentage:    66.67,
		}
		if got != want {
			t.Errorf("Summarize() = %+v, want %+v", got, want)
		}
	})
}
