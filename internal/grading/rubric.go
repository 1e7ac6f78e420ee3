package grading

import (
	"fmt"
	"math"
)

// weightSumEpsilon absorbs float drift when checking that active weights sum
// to 1 (e.g. 0.3+0.3+0.4 style configurations).
const weightSumEpsilon = 1e-6

// WeightModel answers, for one class+term, which rubric category an
// assignment belongs to and what each category weighs. Assignments that
// reference a category outside the active set resolve to a miss, not an
// error: a category deactivated after grades were recorded must not break
// aggregation.
type WeightModel struct {
	assignments map[string]Assignment
	categories  map[string]RubricCategory
}

func NewWeightModel(categories []RubricCategory, assignments []Assignment) *WeightModel {
	m := &WeightModel{
		assignments: make(map[string]Assignment, len(assignments)),
		categories:  make(map[string]RubricCategory, len(categories)),
	}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	for _, a := range assignments {
		m.assignments[a.ID] = a
	}
	return m
}

// Assignment resolves an assignment by id within the active set.
func (m *WeightModel) Assignment(assignmentID string) (Assignment, bool) {
	a, ok := m.assignments[assignmentID]
	return a, ok
}

// CategoryOf resolves the active category of an assignment. It misses when
// either the assignment or its category is no longer active.
func (m *WeightModel) CategoryOf(assignmentID string) (RubricCategory, bool) {
	a, ok := m.assignments[assignmentID]
	if !ok {
		return RubricCategory{}, false
	}
	c, ok := m.categories[a.CategoryID]
	return c, ok
}

// Weights returns the active categoryID -> weight mapping.
func (m *WeightModel) Weights() map[string]float64 {
	out := make(map[string]float64, len(m.categories))
	for id, c := range m.categories {
		out[id] = c.Weight
	}
	return out
}

// ValidateWeights checks the configuration-time invariant: every active
// weight is in (0, 1] and the weights sum to 1. The aggregator itself never
// enforces this; callers on the write path surface it as a warning.
func (m *WeightModel) ValidateWeights() error {
	if len(m.categories) == 0 {
		return fmt.Errorf("no active rubric categories")
	}
	sum := 0.0
	for _, c := range m.categories {
		if c.Weight <= 0 || c.Weight > 1 {
			return fmt.Errorf("category %s: weight %g outside (0,1]", c.ID, c.Weight)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1) > weightSumEpsilon {
		return fmt.Errorf("active weights sum to %g, want 1", sum)
	}
	return nil
}
