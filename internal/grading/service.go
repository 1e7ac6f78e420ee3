package grading

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Auditor receives append-only audit events for grade writes. A nil Auditor
// disables auditing (tests, offline tooling).
type Auditor interface {
	Append(ctx context.Context, typ, key, actor string, data any) error
}

// Clock injection keeps recorded_at deterministic under test.
type Clock func() time.Time

// Service is the single-grade write path plus on-demand average computation.
type Service struct {
	store Store
	audit Auditor
	now   Clock
}

type ServiceOption func(*Service)

func WithAudit(a Auditor) ServiceOption { return func(s *Service) { s.audit = a } }
func WithClock(c Clock) ServiceOption   { return func(s *Service) { s.now = c } }

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RecordGradeInput is an already-authorized request to write one grade.
// Score nil clears the grade back to "ungraded".
type RecordGradeInput struct {
	EnrollmentID string   `json:"enrollment_id" validate:"required"`
	AssignmentID string   `json:"assignment_id" validate:"required"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback"`
	RecordedBy   string   `json:"-"`
}

// RecordGrade records or overwrites exactly one grade, idempotently by
// (enrollment, assignment). The score range is re-checked here even though
// the UI validates it first. Failures propagate; there is no internal retry.
func (s *Service) RecordGrade(ctx context.Context, in RecordGradeInput) (Grade, error) {
	a, err := s.store.GetAssignment(ctx, in.AssignmentID)
	if err != nil {
		return Grade{}, fmt.Errorf("assignment %s: %w", in.AssignmentID, err)
	}
	if in.Score != nil {
		v := *in.Score
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Grade{}, fmt.Errorf("%w: score must be a finite number", ErrValidation)
		}
		if v < 0 || v > a.MaxScore {
			return Grade{}, fmt.Errorf("%w: score %g outside [0, %g]", ErrValidation, v, a.MaxScore)
		}
	}
	g, err := s.store.UpsertGrade(ctx, Grade{
		EnrollmentID: in.EnrollmentID,
		AssignmentID: in.AssignmentID,
		Score:        in.Score,
		Feedback:     in.Feedback,
		RecordedBy:   in.RecordedBy,
		RecordedAt:   s.now().Unix(),
	})
	if err != nil {
		return Grade{}, err
	}
	if s.audit != nil {
		key := in.EnrollmentID + "|" + in.AssignmentID
		_ = s.audit.Append(ctx, "grade.recorded", key, in.RecordedBy, g)
	}
	return g, nil
}

// ComputeAverage computes (without persisting) one enrollment's weighted term
// percentage from a fresh read of its grades. A nil result means "not
// computable yet": the student has no valid scored grades.
func (s *Service) ComputeAverage(ctx context.Context, enrollmentID string) (*float64, error) {
	enr, err := s.store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, err)
	}
	model, err := s.weightModel(ctx, enr.ClassID, enr.TermID)
	if err != nil {
		return nil, err
	}
	grades, err := s.store.ListGrades(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	avg, ok := ComputeTermAverage(grades, model)
	if !ok {
		return nil, nil
	}
	return &avg, nil
}

func (s *Service) weightModel(ctx context.Context, classID, termID string) (*WeightModel, error) {
	cats, err := s.store.ListRubricCategories(ctx, classID, termID)
	if err != nil {
		return nil, err
	}
	asgs, err := s.store.ListAssignments(ctx, classID, termID)
	if err != nil {
		return nil, err
	}
	return NewWeightModel(cats, asgs), nil
}
