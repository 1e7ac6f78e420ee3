package grading

// Assignment is one gradable unit (homework, exam, project) belonging to a
// single rubric category within one class+term.
type Assignment struct {
	ID         string  `json:"id"`
	ClassID    string  `json:"class_id"`
	TermID     string  `json:"term_id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	MaxScore   float64 `json:"max_score"`
}

// RubricCategory is a weighted bucket of assignments. Weight is a fraction of
// the final grade (0 < weight <= 1); the active weights of a class+term are
// expected to sum to 1.
type RubricCategory struct {
	ID      string  `json:"id"`
	ClassID string  `json:"class_id"`
	TermID  string  `json:"term_id"`
	Name    string  `json:"name"`
	Weight  float64 `json:"weight"`
}

// StudentEnrollment is a student's membership in one class for one term; it is
// the key grades are aggregated over.
type StudentEnrollment struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	ClassID     string `json:"class_id"`
	TermID      string `json:"term_id"`
	TutorID     string `json:"tutor_id,omitempty"`
}

// Grade is the atomic fact: one score for one (enrollment, assignment) pair.
// A nil Score means "ungraded". At most one Grade exists per pair; UpsertGrade
// guarantees that by composite key.
type Grade struct {
	EnrollmentID string   `json:"enrollment_id"`
	AssignmentID string   `json:"assignment_id"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback,omitempty"`
	RecordedBy   string   `json:"recorded_by"`
	RecordedAt   int64    `json:"recorded_at"`
}

// TermAverage is derived data: the persisted weighted percentage for one
// enrollment in one term. It may be recomputed and overwritten at any time.
type TermAverage struct {
	EnrollmentID string  `json:"enrollment_id"`
	TermID       string  `json:"term_id"`
	Average      float64 `json:"average"`
	RegisteredBy string  `json:"registered_by"`
	UpdatedAt    int64   `json:"updated_at"`
}
