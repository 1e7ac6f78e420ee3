package grading_test

import (
	"math/rand"
	"testing"

	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/grading"
)

func fp(v float64) *float64 { return &v }

func twoCategoryModel() *grading.WeightModel {
	cats := []grading.RubricCategory{
		{ID: "hw", ClassID: "c1", TermID: "t1", Name: "Homework", Weight: 0.3},
		{ID: "ex", ClassID: "c1", TermID: "t1", Name: "Exams", Weight: 0.7},
	}
	asgs := []grading.Assignment{
		{ID: "hw1", ClassID: "c1", TermID: "t1", CategoryID: "hw", Name: "HW 1", MaxScore: 10},
		{ID: "hw2", ClassID: "c1", TermID: "t1", CategoryID: "hw", Name: "HW 2", MaxScore: 20},
		{ID: "ex1", ClassID: "c1", TermID: "t1", CategoryID: "ex", Name: "Midterm", MaxScore: 50},
	}
	return grading.NewWeightModel(cats, asgs)
}

func TestComputeTermAverage_WeightedRounding(t *testing.T) {
	// Homework 27/30 -> 90%, Exams 41/50 -> 82%.
	// round(90*0.3 + 82*0.7) = round(84.4) = 84.
	grades := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "hw1", Score: fp(9)},
		{EnrollmentID: "e1", AssignmentID: "hw2", Score: fp(18)},
		{EnrollmentID: "e1", AssignmentID: "ex1", Score: fp(41)},
	}
	avg, ok := grading.ComputeTermAverage(grades, twoCategoryModel())
	if !ok {
		t.Fatalf("expected computable average")
	}
	if avg != 84 {
		t.Fatalf("expected 84, got %g", avg)
	}
}

func TestComputeTermAverage_PerCategoryRoundingFirst(t *testing.T) {
	// Category a: 1/8 = 12.5% which rounds to 13 before weighting.
	// Two-stage: round(13*0.5 + 0*0.5) = round(6.5) = 7.
	// A single final-stage rounding over raw fractions would give
	// round(6.25) = 6, so this pins the two-stage contract.
	cats := []grading.RubricCategory{
		{ID: "a", ClassID: "c1", TermID: "t1", Weight: 0.5},
		{ID: "b", ClassID: "c1", TermID: "t1", Weight: 0.5},
	}
	asgs := []grading.Assignment{
		{ID: "a1", ClassID: "c1", TermID: "t1", CategoryID: "a", MaxScore: 8},
		{ID: "b1", ClassID: "c1", TermID: "t1", CategoryID: "b", MaxScore: 100},
	}
	model := grading.NewWeightModel(cats, asgs)
	grades := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "a1", Score: fp(1)},
		{EnrollmentID: "e1", AssignmentID: "b1", Score: fp(0)},
	}
	avg, ok := grading.ComputeTermAverage(grades, model)
	if !ok {
		t.Fatalf("expected computable average")
	}
	if avg != 7 {
		t.Fatalf("expected two-stage rounding result 7, got %g", avg)
	}
}

func TestComputeTermAverage_SkipsEmptyCategory(t *testing.T) {
	cats := []grading.RubricCategory{
		{ID: "hw", ClassID: "c1", TermID: "t1", Weight: 0.3},
		{ID: "ex", ClassID: "c1", TermID: "t1", Weight: 0.7},
		{ID: "pj", ClassID: "c1", TermID: "t1", Weight: 0}, // zero weight
	}
	asgs := []grading.Assignment{
		{ID: "hw1", ClassID: "c1", TermID: "t1", CategoryID: "hw", MaxScore: 30},
		{ID: "ex1", ClassID: "c1", TermID: "t1", CategoryID: "ex", MaxScore: 50},
		{ID: "pj1", ClassID: "c1", TermID: "t1", CategoryID: "pj", MaxScore: 0}, // zero max
	}
	model := grading.NewWeightModel(cats, asgs)
	grades := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "hw1", Score: fp(27)},
		{EnrollmentID: "e1", AssignmentID: "ex1", Score: fp(41)},
		{EnrollmentID: "e1", AssignmentID: "pj1", Score: fp(0)},
	}
	avg, ok := grading.ComputeTermAverage(grades, model)
	if !ok {
		t.Fatalf("expected computable average despite empty category")
	}
	if avg != 84 {
		t.Fatalf("zero-max category must not shift the result; expected 84, got %g", avg)
	}
}

func TestComputeTermAverage_NoData(t *testing.T) {
	if _, ok := grading.ComputeTermAverage(nil, twoCategoryModel()); ok {
		t.Fatalf("no grades must yield not-computable, never 0")
	}
	// nil scores only: still not computable
	grades := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "hw1", Score: nil},
		{EnrollmentID: "e1", AssignmentID: "ex1", Score: nil},
	}
	if _, ok := grading.ComputeTermAverage(grades, twoCategoryModel()); ok {
		t.Fatalf("ungraded-only input must yield not-computable")
	}
}

func TestComputeTermAverage_ExcludesUnresolvedAssignments(t *testing.T) {
	base := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "hw1", Score: fp(9)},
		{EnrollmentID: "e1", AssignmentID: "hw2", Score: fp(18)},
		{EnrollmentID: "e1", AssignmentID: "ex1", Score: fp(41)},
	}
	model := twoCategoryModel()
	want, ok := grading.ComputeTermAverage(base, model)
	if !ok {
		t.Fatalf("expected computable average")
	}
	// A grade for a deleted assignment must not change anything.
	withGhost := append([]grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "deleted-assignment", Score: fp(0)},
	}, base...)
	got, ok := grading.ComputeTermAverage(withGhost, model)
	if !ok || got != want {
		t.Fatalf("unresolved assignment changed the result: want %g, got %g (ok=%v)", want, got, ok)
	}
}

func TestComputeTermAverage_Deterministic(t *testing.T) {
	grades := []grading.Grade{
		{EnrollmentID: "e1", AssignmentID: "hw1", Score: fp(7)},
		{EnrollmentID: "e1", AssignmentID: "hw2", Score: fp(13)},
		{EnrollmentID: "e1", AssignmentID: "ex1", Score: fp(44)},
	}
	model := twoCategoryModel()
	first, ok1 := grading.ComputeTermAverage(grades, model)
	for i := 0; i < 50; i++ {
		shuffled := append([]grading.Grade(nil), grades...)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, ok := grading.ComputeTermAverage(shuffled, model)
		if ok != ok1 || got != first {
			t.Fatalf("run %d: result changed under permutation: %g/%v vs %g/%v", i, got, ok, first, ok1)
		}
	}
}
