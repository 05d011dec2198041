package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
	SubmissionReturned  = "returned"
	SubmissionNeedsFix  = "needs_fix"
)

// Assignment is the homework attached to a paragraph (one per paragraph)
type Assignment struct {
	gorm.Model
	ParagraphID  uint       `json:"paragraph_id" gorm:"uniqueIndex;not null"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions" gorm:"type:text"`
	DueAt        *time.Time `json:"due_at"`
	MaxPoints    int        `json:"max_points" gorm:"default:0"`
	Status       string     `json:"status" gorm:"default:'draft'"` // draft, published
}

// AssignmentSubmission is unique per (assignment, student); resubmission updates it
type AssignmentSubmission struct {
	gorm.Model
	AssignmentID   uint      `json:"assignment_id" gorm:"index:idx_assignment_student,unique;not null"`
	StudentID      uint      `json:"student_id" gorm:"index:idx_assignment_student,unique;not null"`
	TextAnswer     string    `json:"text_answer" gorm:"type:text"`
	FilePath       string    `json:"file_path"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Status         string    `json:"status" gorm:"default:'submitted'"` // submitted, graded, returned, needs_fix
	Score          *int      `json:"score"`
	Grade5         *int      `json:"grade_5" gorm:"column:grade_5"`
	TeacherComment string    `json:"teacher_comment" gorm:"type:text"`
}
