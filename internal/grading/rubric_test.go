package grading_test

import (
	"testing"

	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/grading"
)

func TestWeightModel_CategoryOf(t *testing.T) {
	model := twoCategoryModel()

	cat, ok := model.CategoryOf("hw1")
	if !ok || cat.ID != "hw" {
		t.Fatalf("expected hw category for hw1, got %q (ok=%v)", cat.ID, ok)
	}
	if _, ok := model.CategoryOf("missing"); ok {
		t.Fatalf("unknown assignment must not resolve")
	}

	// Assignment pointing at a deactivated category resolves to a miss.
	cats := []grading.RubricCategory{{ID: "hw", ClassID: "c1", TermID: "t1", Weight: 1}}
	asgs := []grading.Assignment{
		{ID: "orphan", ClassID: "c1", TermID: "t1", CategoryID: "gone", MaxScore: 10},
	}
	orphaned := grading.NewWeightModel(cats, asgs)
	if _, ok := orphaned.CategoryOf("orphan"); ok {
		t.Fatalf("assignment with deactivated category must not resolve")
	}
}

func TestWeightModel_Weights(t *testing.T) {
	w := twoCategoryModel().Weights()
	if len(w) != 2 || w["hw"] != 0.3 || w["ex"] != 0.7 {
		t.Fatalf("unexpected weights: %v", w)
	}
}

func TestWeightModel_ValidateWeights(t *testing.T) {
	if err := twoCategoryModel().ValidateWeights(); err != nil {
		t.Fatalf("0.3+0.7 should validate: %v", err)
	}

	bad := grading.NewWeightModel([]grading.RubricCategory{
		{ID: "a", Weight: 0.3},
		{ID: "b", Weight: 0.3},
	}, nil)
	if err := bad.ValidateWeights(); err == nil {
		t.Fatalf("weights summing to 0.6 must not validate")
	}

	outOfRange := grading.NewWeightModel([]grading.RubricCategory{
		{ID: "a", Weight: 1.2},
	}, nil)
	if err := outOfRange.ValidateWeights(); err == nil {
		t.Fatalf("weight above 1 must not validate")
	}

	empty := grading.NewWeightModel(nil, nil)
	if err := empty.ValidateWeights(); err == nil {
		t.Fatalf("empty category set must not validate")
	}

	// Float drift within epsilon still validates.
	drift := grading.NewWeightModel([]grading.RubricCategory{
		{ID: "a", Weight: 0.1},
		{ID: "b", Weight: 0.2},
		{ID: "c", Weight: 0.3},
		{ID: "d", Weight: 0.4},
	}, nil)
	if err := drift.ValidateWeights(); err != nil {
		t.Fatalf("0.1+0.2+0.3+0.4 should validate: %v", err)
	}
}
