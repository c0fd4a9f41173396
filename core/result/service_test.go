package result_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/tests"
)

var ctx = context.Background()

// partialClass builds a class of 5 students where s1, s2 and s3 scored 90, 70 and 70.
func partialClass(t *testing.T) (*testutil.Env, exam.Exam, exam.ExamClass) {
	env := testutil.NewEnv(t, nil)
	env.SetScale(t, testutil.Caller, testutil.ContinuousScale)
	ex := env.CreateExam(t, testutil.Caller, "Final", "2024", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	ec := env.AddClass(t, testutil.Caller, ex, "class-a", testutil.Students("s1", "s2", "s3", "s4", "s5")...)
	es := env.AddSubject(t, testutil.Caller, ec, "maths", 4, 100, 40)
	env.Record(t, testutil.Caller, es, "s1", 90)
	env.Record(t, testutil.Caller, es, "s3", 70)
	env.Record(t, testutil.Caller, es, "s2", 70)
	return env, ex, ec
}

func TestService_ClassSummary(t *testing.T) {
	env, ex, ec := partialClass(t)

	sum, err := env.Results.ClassSummary(ctx, testutil.Caller, ec.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ClassSummary{
		ExamID:            ex.ID,
		ExamClassID:       ec.ID,
		TotalStudents:     5,
		StudentsWithMarks: 3,
		AveragePercentage: 76.67,
		HighestPercentage: 90,
		LowestPercentage:  70,
		PassedStudents:    3,
		FailedStudents:    0,
		PassPercentage:    100,
	}, sum)

	_, err = env.Results.ClassSummary(ctx, testutil.OtherCaller, ec.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestService_ClassRanking(t *testing.T) {
	env, _, ec := partialClass(t)

	ranked, err := env.Results.ClassRanking(ctx, testutil.Caller, ec.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	got := make([][2]interface{}, 0, len(ranked))
	for _, r := range ranked {
		got = append(got, [2]interface{}{r.StudentID, r.Rank})
	}
	assert.Equal(t, [][2]interface{}{{"s1", 1}, {"s2", 2}, {"s3", 2}}, got)

	// the next percentage down takes rank 4
	es, err := env.Exams.Subjects(ctx, testutil.Caller, ec.ID)
	require.NoError(t, err)
	env.Record(t, testutil.Caller, es[0], "s5", 50)
	ranked, err = env.Results.ClassRanking(ctx, testutil.Caller, ec.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, "s5", ranked[3].StudentID)
	assert.Equal(t, 4, ranked[3].Rank)
}

func TestService_StudentExamResult(t *testing.T) {
	env, ex, _ := partialClass(t)

	res, err := env.Results.StudentExamResult(ctx, testutil.Caller, ex.ID, "s3")
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.Percentage)
	assert.Equal(t, "C", res.Grade)
	assert.Equal(t, 6.0, res.GradePoints)
	assert.True(t, res.IsPassed)
	assert.Equal(t, 2, res.Rank)
	assert.Equal(t, "3", res.RollNumber)

	_, err = env.Results.StudentExamResult(ctx, testutil.Caller, ex.ID, "s4")
	assert.True(t, errors.Is(err, result.ErrNoResult))

	_, err = env.Results.StudentExamResult(ctx, testutil.Caller, "nope", "s1")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestService_StudentExamResult_isPure(t *testing.T) {
	env, ex, _ := partialClass(t)

	first, err := env.Results.StudentExamResult(ctx, testutil.Caller, ex.ID, "s1")
	require.NoError(t, err)
	second, err := env.Results.StudentExamResult(ctx, testutil.Caller, ex.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_passPolicy(t *testing.T) {
	for _, tt := range []struct {
		policy string
		want   bool
	}{
		{core.PassPolicyAllSubjects, false},
		{core.PassPolicyPercentage, true},
	} {
		t.Run(tt.policy, func(t *testing.T) {
			conf := testutil.Config()
			conf.Grading.PassPolicy = tt.policy
			env := testutil.NewEnv(t, conf)
			env.SetScale(t, testutil.Caller, testutil.ContinuousScale)
			ex := env.CreateExam(t, testutil.Caller, "Final", "2024", time.Now())
			ec := env.AddClass(t, testutil.Caller, ex, "class-a", testutil.Students("s1")...)
			maths := env.AddSubject(t, testutil.Caller, ec, "maths", 4, 100, 40)
			physics := env.AddSubject(t, testutil.Caller, ec, "physics", 3, 100, 40)
			env.Record(t, testutil.Caller, maths, "s1", 100)
			env.Record(t, testutil.Caller, physics, "s1", 30)

			res, err := env.Results.StudentExamResult(ctx, testutil.Caller, ex.ID, "s1")
			require.NoError(t, err)
			assert.Equal(t, 65.0, res.Percentage)
			assert.Equal(t, tt.want, res.IsPassed)
		})
	}
}

func TestService_YearOutcomes(t *testing.T) {
	env := testutil.NewEnv(t, nil)
	env.SetScale(t, testutil.Caller, testutil.ContinuousScale)

	late := env.CreateExam(t, testutil.Caller, "Final", "2024", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	early := env.CreateExam(t, testutil.Caller, "Midterm", "2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	other := env.CreateExam(t, testutil.Caller, "Final", "2023", time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
	empty := env.CreateExam(t, testutil.Caller, "Retake", "2024", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	for _, ex := range []exam.Exam{late, early, other, empty} {
		ec := env.AddClass(t, testutil.Caller, ex, "class-a", testutil.Students("s1")...)
		es := env.AddSubject(t, testutil.Caller, ec, "maths", 4, 100, 40)
		if ex.ID != empty.ID {
			env.Record(t, testutil.Caller, es, "s1", 80)
		}
	}

	outcomes, err := env.Results.YearOutcomes(ctx, testutil.Caller, "s1", "2024")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, early.ID, outcomes[0].Exam.ID)
	assert.Equal(t, late.ID, outcomes[1].Exam.ID)

	outcomes, err = env.Results.YearOutcomes(ctx, testutil.Caller, "s1", "2022")
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
