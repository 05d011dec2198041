package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Attempt statuses
const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted" // finished, text questions await manual scores
	AttemptGraded     = "graded"
)

// QuizAttempt is one gradable instance of a student taking a quiz
type QuizAttempt struct {
	gorm.Model
	QuizID     uint       `json:"quiz_id" gorm:"index;not null"`
	StudentID  uint       `json:"student_id" gorm:"index;not null"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Status     string     `json:"status" gorm:"default:'in_progress'"` // in_progress, submitted, graded
	Score      int        `json:"score" gorm:"default:0"`
	Autograded bool       `json:"autograded" gorm:"default:false"`
	Grade5     *int       `json:"grade_5" gorm:"column:grade_5"` // nil until finished
	GradeID    *uint      `json:"grade_id"` // ledger row created at finish time
}

// QuizAnswer holds a student's answer to one question of an attempt.
// Selected options and free text are mutually exclusive by question type.
type QuizAnswer struct {
	gorm.Model
	AttemptID         uint    `json:"attempt_id" gorm:"index:idx_attempt_question,unique;not null"`
	QuestionID        uint    `json:"question_id" gorm:"index:idx_attempt_question,unique;not null"`
	SelectedOptionIDs string  `json:"selected_option_ids"` // JSON array of option IDs
	TextAnswer        *string `json:"text_answer" gorm:"type:text"`
	AutoScore         int     `json:"auto_score" gorm:"default:0"`
	ManualScore       *int    `json:"manual_score"` // teacher-assigned score for text questions
}

// SelectedIDs decodes the stored option id list
func (a *QuizAnswer) SelectedIDs() []uint {
	if a.SelectedOptionIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(a.SelectedOptionIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// SetSelectedIDs encodes the option id list for storage
func (a *QuizAnswer) SetSelectedIDs(ids []uint) {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	a.SelectedOptionIDs = string(raw)
}
