package grading

import (
	"errors"
	"testing"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

func tenPointScale(t *testing.T) *Scale {
	scale, err := NewScale([]GradeScale{
		{ID: "f", Grade: "F", MinMarks: 0, MaxMarks: 59, GradePoints: 0},
		{ID: "a", Grade: "A", MinMarks: 90, MaxMarks: 100, GradePoints: 10},
		{ID: "c", Grade: "C", MinMarks: 60, MaxMarks: 74, GradePoints: 6},
		{ID: "b", Grade: "B", MinMarks: 75, MaxMarks: 89, GradePoints: 8},
	})
	if err != nil {
		t.Fatalf("NewScale() failed: %v", err)
	}
	return scale
}

func TestNewScale(t *testing.T) {
	tests := []struct {
		name       string
		ranges     []GradeScale
		wantFields []string
	}{
		{name: "empty", ranges: nil},
		{
			name: "contiguous",
			ranges: []GradeScale{
				{Grade: "P", MinMarks: 40, MaxMarks: 100, GradePoints: 4},
				{Grade: "F", MinMarks: 0, MaxMarks: 39.99, GradePoints: 0},
			},
		},
		{
			name: "overlap",
			ranges: []GradeScale{
				{Grade: "A", MinMarks: 50, MaxMarks: 100, GradePoints: 10},
				{Grade: "B", MinMarks: 0, MaxMarks: 50, GradePoints: 5},
			},
			wantFields: []string{"ranges[A]"},
		},
		{
			name: "out of bounds",
			ranges: []GradeScale{
				{Grade: "A", MinMarks: 90, MaxMarks: 110, GradePoints: 10},
				{Grade: "F", MinMarks: -1, MaxMarks: 10, GradePoints: 0},
			},
			wantFields: []string{"ranges[F]", "ranges[A]"},
		},
		{
			name:       "inverted",
			ranges:     []GradeScale{{Grade: "A", MinMarks: 90, MaxMarks: 80, GradePoints: 10}},
			wantFields: []string{"ranges[A]"},
		},
		{
			name:       "blank grade",
			ranges:     []GradeScale{{Grade: "  ", MinMarks: 0, MaxMarks: 100, GradePoints: 10}},
			wantFields: []string{"ranges[0]"},
		},
		{
			name:       "negative points",
			ranges:     []GradeScale{{Grade: "A", MinMarks: 0, MaxMarks: 100, GradePoints: -1}},
			wantFields: []string{"ranges[A]"},
		},
		{
			name: "too many decimals",
			ranges: []GradeScale{
				{Grade: "P", MinMarks: 39.995, MaxMarks: 100, GradePoints: 4},
				{Grade: "F", MinMarks: 0, MaxMarks: 39.99, GradePoints: 0.125},
			},
			wantFields: []string{"ranges[F]", "ranges[P]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScale(tt.ranges)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("NewScale() unexpected error = %v", err)
				}
				return
			}

			if !errors.Is(err, core.ErrInvalidMarks) {
				t.Fatalf("NewScale() error = %v, want kind %v", err, core.ErrInvalidMarks)
			}
			var vErr *core.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("NewScale() error = %T, want *core.ValidationError", err)
			}
			if len(vErr.Fields) != len(tt.wantFields) {
				t.Fatalf("NewScale() fields = %v, want %v", vErr.Fields, tt.wantFields)
			}
			for i, fld := range vErr.Fields {
				if fld.Field != tt.wantFields[i] {
					t.Errorf("NewScale() fields[%d] = %s, want %s", i, fld.Field, tt.wantFields[i])
				}
			}
		})
	}
}

func TestScale_Resolve(t *testing.T) {
	scale := tenPointScale(t)

	tests := []struct {
		score      float64
		wantGrade  string
		wantPoints float64
		wantErr    error
	}{
		{score: 0, wantGrade: "F", wantPoints: 0},
		{score: 59, wantGrade: "F", wantPoints: 0},
		{score: 59.5, wantErr: core.ErrNoMatchingGrade},
		{score: 60, wantGrade: "C", wantPoints: 6},
		{score: 74, wantGrade: "C", wantPoints: 6},
		{score: 75, wantGrade: "B", wantPoints: 8},
		{score: 82, wantGrade: "B", wantPoints: 8},
		{score: 89, wantGrade: "B", wantPoints: 8},
		{score: 89.5, wantErr: core.ErrNoMatchingGrade},
		{score: 90, wantGrade: "A", wantPoints: 10},
		{score: 100, wantGrade: "A", wantPoints: 10},
		{score: 100.01, wantErr: core.ErrNoMatchingGrade},
		{score: -0.01, wantErr: core.ErrNoMatchingGrade},
	}
	for _, tt := range tests {
		got, err := scale.Resolve(tt.score)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%v) error = %v, want %v", tt.score, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%v) unexpected error = %v", tt.score, err)
			continue
		}
		if got.Label != tt.wantGrade || got.Points != tt.wantPoints {
			t.Errorf("Resolve(%v) = %s/%v, want %s/%v", tt.score, got.Label, got.Points, tt.wantGrade, tt.wantPoints)
		}
	}
}

func TestScale_ResolveIsUniqueOnWellFormedScale(t *testing.T) {
	scale, err := NewScale([]GradeScale{
		{Grade: "A", MinMarks: 80, MaxMarks: 100, GradePoints: 10},
		{Grade: "B", MinMarks: 50, MaxMarks: 79.99, GradePoints: 7},
		{Grade: "F", MinMarks: 0, MaxMarks: 49.99, GradePoints: 0},
	})
	if err != nil {
		t.Fatalf("NewScale() failed: %v", err)
	}
	if gaps := scale.Gaps(2); len(gaps) != 0 {
		t.Fatalf("Gaps() = %v, want none", gaps)
	}

	for i := 0; i <= 10000; i++ {
		score := float64(i) / 100
		got, err := scale.Resolve(score)
		if err != nil {
			t.Fatalf("Resolve(%v) unexpected error = %v", score, err)
		}
		var matches int
		for _, gs := range scale.Ranges() {
			if gs.covers(score) {
				matches++
				if gs.Grade != got.Label {
					t.Fatalf("Resolve(%v) = %s, want %s", score, got.Label, gs.Grade)
				}
			}
		}
		if matches != 1 {
			t.Fatalf("score %v matched %d ranges", score, matches)
		}
	}
}

func TestScale_Gaps(t *testing.T) {
	scale := tenPointScale(t)
	want := []Gap{{From: 59.01, To: 59.99}, {From: 74.01, To: 74.99}, {From: 89.01, To: 89.99}}

	got := scale.Gaps(2)
	if len(got) != len(want) {
		t.Fatalf("Gaps() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Gaps()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	partial, _ := NewScale([]GradeScale{{Grade: "B", MinMarks: 10, MaxMarks: 50, GradePoints: 5}})
	got = partial.Gaps(0)
	want = []Gap{{From: 0, To: 9}, {From: 51, To: 100}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Gaps() = %v, want %v", got, want)
	}

	empty, _ := NewScale(nil)
	if got = empty.Gaps(2); len(got) != 1 || got[0] != (Gap{From: 0, To: 100}) {
		t.Errorf("Gaps() = %v, want the whole scale", got)
	}
}

func TestScale_Points(t *testing.T) {
	scale := tenPointScale(t)
	if got := scale.MinPoints(); got != 0 {
		t.Errorf("MinPoints() = %v, want 0", got)
	}
	if got := scale.MaxPoints(); got != 10 {
		t.Errorf("MaxPoints() = %v, want 10", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   float64
	}{
		{x: 76.666666, places: 2, want: 76.67},
		{x: 7.142857, places: 2, want: 7.14},
		{x: 1.005, places: 2, want: 1.01},
		{x: 2.5, places: 0, want: 3},
		{x: 82, places: 2, want: 82},
		{x: 0, places: 2, want: 0},
		{x: 33.3333, places: 1, want: 33.3},
	}
	for _, tt := range tests {
		if got := Round(tt.x, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.x, tt.places, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(82, 100, 2); got != 82 {
		t.Errorf("Percentage(82, 100) = %v, want 82", got)
	}
	if got := Percentage(2, 3, 2); got != 66.67 {
		t.Errorf("Percentage(2, 3) = %v, want 66.67", got)
	}
	if got := Percentage(5, 0, 2); got != 0 {
		t.Errorf("Percentage(5, 0) = %v, want 0", got)
	}
}
