package grading

import (
	"context"
	"errors"
)

// ErrNotFound reports a missing row (enrollment, assignment, grade).
var ErrNotFound = errors.New("not found")

// ErrValidation reports a score outside [0, assignment.MaxScore] or a
// non-finite score; rejected before any write.
var ErrValidation = errors.New("validation failed")

// ListOpts carries the viewer identity used to scope roster reads. Scoping is
// applied by the store before data reaches the aggregation core; the core
// never re-checks authorization.
type ListOpts struct {
	ViewerID   string
	ViewerRole string // "student" | "tutor" | "teacher" | "admin"
}

// Store is the data collaborator: reads over the class/term configuration and
// grade facts, plus the two idempotent write paths. Implementations must
// guarantee at most one grade per (enrollment, assignment) and at most one
// term average per (enrollment, term).
type Store interface {
	GetEnrollment(ctx context.Context, enrollmentID string) (StudentEnrollment, error)
	ListEnrollments(ctx context.Context, classID, termID string, opts ListOpts) ([]StudentEnrollment, error)
	ListAssignments(ctx context.Context, classID, termID string) ([]Assignment, error)
	ListRubricCategories(ctx context.Context, classID, termID string) ([]RubricCategory, error)
	GetAssignment(ctx context.Context, assignmentID string) (Assignment, error)
	ListGrades(ctx context.Context, enrollmentID string) ([]Grade, error)

	UpsertGrade(ctx context.Context, g Grade) (Grade, error)
	UpsertTermAverage(ctx context.Context, ta TermAverage) (TermAverage, error)
}
