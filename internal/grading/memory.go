package grading

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type gradeKey struct{ enrollmentID, assignmentID string }
type averageKey struct{ enrollmentID, termID string }

// memoryStore backs tests and offline tooling. Same upsert invariants as the
// SQL store: one grade per (enrollment, assignment), one average per
// (enrollment, term).
type memoryStore struct {
	mu          sync.RWMutex
	enrollments map[string]StudentEnrollment
	assignments map[string]Assignment
	categories  map[string]RubricCategory
	grades      map[gradeKey]Grade
	averages    map[averageKey]TermAverage
}

func NewInMemoryStore() *memoryStore {
	return &memoryStore{
		enrollments: map[string]StudentEnrollment{},
		assignments: map[string]Assignment{},
		categories:  map[string]RubricCategory{},
		grades:      map[gradeKey]Grade{},
		averages:    map[averageKey]TermAverage{},
	}
}

// Seed helpers for tests and the offline fixture loader.

func (m *memoryStore) AddEnrollment(e StudentEnrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[e.ID] = e
}

func (m *memoryStore) AddAssignment(a Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
}

func (m *memoryStore) AddRubricCategory(c RubricCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
}

// TermAverageFor exposes a persisted average to assertions.
func (m *memoryStore) TermAverageFor(enrollmentID, termID string) (TermAverage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ta, ok := m.averages[averageKey{enrollmentID, termID}]
	return ta, ok
}

func (m *memoryStore) GetEnrollment(_ context.Context, enrollmentID string) (StudentEnrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.enrollments[enrollmentID]
	if !ok {
		return StudentEnrollment{}, fmt.Errorf("enrollment %s: %w", enrollmentID, ErrNotFound)
	}
	return e, nil
}

func (m *memoryStore) ListEnrollments(_ context.Context, classID, termID string, opts ListOpts) ([]StudentEnrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []StudentEnrollment
	for _, e := range m.enrollments {
		if e.ClassID != classID || e.TermID != termID {
			continue
		}
		switch opts.ViewerRole {
		case "tutor":
			if e.TutorID != opts.ViewerID {
				continue
			}
		case "student":
			if e.StudentID != opts.ViewerID {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) ListAssignments(_ context.Context, classID, termID string) ([]Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Assignment
	for _, a := range m.assignments {
		if a.ClassID == classID && a.TermID == termID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) ListRubricCategories(_ context.Context, classID, termID string) ([]RubricCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []RubricCategory
	for _, c := range m.categories {
		if c.ClassID == classID && c.TermID == termID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) GetAssignment(_ context.Context, assignmentID string) (Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[assignmentID]
	if !ok {
		return Assignment{}, fmt.Errorf("assignment %s: %w", assignmentID, ErrNotFound)
	}
	return a, nil
}

func (m *memoryStore) ListGrades(_ context.Context, enrollmentID string) ([]Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Grade
	for k, g := range m.grades {
		if k.enrollmentID == enrollmentID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignmentID < out[j].AssignmentID })
	return out, nil
}

func (m *memoryStore) UpsertGrade(_ context.Context, g Grade) (Grade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grades[gradeKey{g.EnrollmentID, g.AssignmentID}] = g
	return g, nil
}

func (m *memoryStore) UpsertTermAverage(_ context.Context, ta TermAverage) (TermAverage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.averages[averageKey{ta.EnrollmentID, ta.TermID}] = ta
	return ta, nil
}

// GradeCount reports how many grade rows exist for an enrollment; used to
// assert upsert (not insert) semantics.
func (m *memoryStore) GradeCount(enrollmentID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for k := range m.grades {
		if k.enrollmentID == enrollmentID {
			n++
		}
	}
	return n
}
