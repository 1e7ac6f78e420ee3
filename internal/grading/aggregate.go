package grading

import (
	"math"
	"sort"
)

// ComputeTermAverage turns one student's raw grades into the weighted term
// percentage. The second return is false when no category contributed (zero
// valid scored grades), which callers must treat as "not computable yet",
// never as 0.
//
// Rounding happens twice: once per category to an integer percent, and once
// on the weighted sum. Both stages round half away from zero. The two-stage
// policy is a behavioral contract of the grade ledger; averages already
// published to students must not shift under a re-run.
func ComputeTermAverage(grades []Grade, model *WeightModel) (float64, bool) {
	type sums struct {
		score float64
		max   float64
	}
	byCategory := map[string]sums{}
	for _, g := range grades {
		if g.Score == nil {
			continue
		}
		cat, ok := model.CategoryOf(g.AssignmentID)
		if !ok {
			// Assignment or category dropped from the active set after the
			// grade was recorded: the grade no longer contributes.
			continue
		}
		a, _ := model.Assignment(g.AssignmentID)
		s := byCategory[cat.ID]
		s.score += *g.Score
		s.max += a.MaxScore
		byCategory[cat.ID] = s
	}

	// Sorted iteration keeps float accumulation identical across runs.
	catIDs := make([]string, 0, len(byCategory))
	for id := range byCategory {
		catIDs = append(catIDs, id)
	}
	sort.Strings(catIDs)

	total := 0.0
	contributed := false
	for _, id := range catIDs {
		s := byCategory[id]
		if s.max <= 0 {
			// No attainable points in this category; excluded, not 0%.
			continue
		}
		percent := math.Round(s.score / s.max * 100)
		total += percent * model.categories[id].Weight
		contributed = true
	}
	if !contributed {
		return 0, false
	}
	return math.Round(total), true
}
