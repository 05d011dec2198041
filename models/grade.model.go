package models

import (
	"time"

	"gorm.io/gorm"
)

// GradeableKind tags what produced a ledger row. The set is closed:
// new kinds require a code change.
type GradeableKind string

const (
	GradeableQuizAttempt GradeableKind = "quiz_attempt"
	GradeableSubmission  GradeableKind = "assignment_submission"
	GradeableModule      GradeableKind = "module"
	GradeableYearly      GradeableKind = "yearly"
	GradeableExam        GradeableKind = "exam"
	GradeableFinal       GradeableKind = "final"
)

// IsTermKind reports whether the kind is an end-of-term mark keyed by course id
func (k GradeableKind) IsTermKind() bool {
	return k == GradeableYearly || k == GradeableExam || k == GradeableFinal
}

// Grade is the unified ledger row. GradeableKind + GradeableID reference the
// producing entity: a quiz attempt, a submission, a module, or (for the
// yearly/exam/final kinds) the course itself.
type Grade struct {
	gorm.Model
	StudentID      uint          `json:"student_id" gorm:"index;not null"`
	CourseID       uint          `json:"course_id" gorm:"index;not null"`
	TeacherID      *uint         `json:"teacher_id"` // nil for auto-graded quiz attempts
	GradeableKind  GradeableKind `json:"gradeable_kind" gorm:"index;not null"`
	GradeableID    uint          `json:"gradeable_id" gorm:"index;not null"`
	Score          *int          `json:"score"`
	Grade5         int           `json:"grade_5" gorm:"column:grade_5;not null"`
	MaxPoints      *int          `json:"max_points"`
	Title          string        `json:"title"`
	TeacherComment string        `json:"teacher_comment" gorm:"type:text"`
	GradedAt       time.Time     `json:"graded_at"`
}
