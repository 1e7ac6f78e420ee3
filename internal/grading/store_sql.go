package grading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore implements Store over database/sql. The placeholder style ($1) and
// ON CONFLICT upserts work against both the pgx and modernc sqlite drivers.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetEnrollment(ctx context.Context, enrollmentID string) (StudentEnrollment, error) {
	var e StudentEnrollment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, student_name, class_id, term_id, tutor_id
		   FROM enrollments WHERE id=$1`, enrollmentID).
		Scan(&e.ID, &e.StudentID, &e.StudentName, &e.ClassID, &e.TermID, &e.TutorID)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentEnrollment{}, fmt.Errorf("enrollment %s: %w", enrollmentID, ErrNotFound)
	}
	return e, err
}

func (s *SQLStore) ListEnrollments(ctx context.Context, classID, termID string, opts ListOpts) ([]StudentEnrollment, error) {
	q := `SELECT id, student_id, student_name, class_id, term_id, tutor_id
	        FROM enrollments WHERE class_id=$1 AND term_id=$2`
	args := []any{classID, termID}
	// Scoping: tutors see their own students, students see themselves,
	// teacher/admin see the full roster.
	switch opts.ViewerRole {
	case "tutor":
		q += ` AND tutor_id=$3`
		args = append(args, opts.ViewerID)
	case "student":
		q += ` AND student_id=$3`
		args = append(args, opts.ViewerID)
	}
	q += ` ORDER BY student_name, id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudentEnrollment
	for rows.Next() {
		var e StudentEnrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.StudentName, &e.ClassID, &e.TermID, &e.TutorID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAssignments(ctx context.Context, classID, termID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, class_id, term_id, category_id, name, max_score
		   FROM assignments WHERE class_id=$1 AND term_id=$2 ORDER BY name, id`,
		classID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ClassID, &a.TermID, &a.CategoryID, &a.Name, &a.MaxScore); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListRubricCategories(ctx context.Context, classID, termID string) ([]RubricCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, class_id, term_id, name, weight
		   FROM rubric_categories WHERE class_id=$1 AND term_id=$2 ORDER BY name, id`,
		classID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RubricCategory
	for rows.Next() {
		var c RubricCategory
		if err := rows.Scan(&c.ID, &c.ClassID, &c.TermID, &c.Name, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	var a Assignment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, class_id, term_id, category_id, name, max_score
		   FROM assignments WHERE id=$1`, assignmentID).
		Scan(&a.ID, &a.ClassID, &a.TermID, &a.CategoryID, &a.Name, &a.MaxScore)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, fmt.Errorf("assignment %s: %w", assignmentID, ErrNotFound)
	}
	return a, err
}

func (s *SQLStore) ListGrades(ctx context.Context, enrollmentID string) ([]Grade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT enrollment_id, assignment_id, score, feedback, recorded_by, recorded_at
		   FROM grades WHERE enrollment_id=$1`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Grade
	for rows.Next() {
		var g Grade
		var score sql.NullFloat64
		if err := rows.Scan(&g.EnrollmentID, &g.AssignmentID, &score, &g.Feedback, &g.RecordedBy, &g.RecordedAt); err != nil {
			return nil, err
		}
		if score.Valid {
			v := score.Float64
			g.Score = &v
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertGrade(ctx context.Context, g Grade) (Grade, error) {
	var score sql.NullFloat64
	if g.Score != nil {
		score = sql.NullFloat64{Float64: *g.Score, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grades (enrollment_id, assignment_id, score, feedback, recorded_by, recorded_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (enrollment_id, assignment_id) DO UPDATE SET
			score=EXCLUDED.score,
			feedback=EXCLUDED.feedback,
			recorded_by=EXCLUDED.recorded_by,
			recorded_at=EXCLUDED.recorded_at`,
		g.EnrollmentID, g.AssignmentID, score, g.Feedback, g.RecordedBy, g.RecordedAt)
	return g, err
}

func (s *SQLStore) UpsertTermAverage(ctx context.Context, ta TermAverage) (TermAverage, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO term_averages (enrollment_id, term_id, average, registered_by, updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (enrollment_id, term_id) DO UPDATE SET
			average=EXCLUDED.average,
			registered_by=EXCLUDED.registered_by,
			updated_at=EXCLUDED.updated_at`,
		ta.EnrollmentID, ta.TermID, ta.Average, ta.RegisteredBy, ta.UpdatedAt)
	return ta, err
}
