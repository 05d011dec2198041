package models

import "gorm.io/gorm"

// Quiz / assignment lifecycle statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Question types
const (
	QuestionSingle   = "single"
	QuestionMultiple = "multiple"
	QuestionText     = "text"
)

// Quiz is the auto-graded test attached to a paragraph (one per paragraph)
type Quiz struct {
	gorm.Model
	ParagraphID  uint   `json:"paragraph_id" gorm:"uniqueIndex;not null"`
	Title        string `json:"title"`
	Instructions string `json:"instructions" gorm:"type:text"`
	TimeLimitSec *int   `json:"time_limit_sec"`
	MaxAttempts  *int   `json:"max_attempts"` // nil = unlimited
	Shuffle      bool   `json:"shuffle" gorm:"default:false"`
	Status       string `json:"status" gorm:"default:'draft'"` // draft, published
	MaxPoints    int    `json:"max_points" gorm:"default:0"`   // frozen at publish time

	Questions []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID"`
}

// QuizQuestion belongs to a quiz; single/multiple questions carry options
type QuizQuestion struct {
	gorm.Model
	QuizID   uint   `json:"quiz_id" gorm:"index;not null"`
	Type     string `json:"type" gorm:"not null"` // single, multiple, text
	Text     string `json:"text" gorm:"type:text"`
	Points   int    `json:"points" gorm:"default:1"`
	Position int    `json:"position" gorm:"default:0"`

	Options []QuizOption `json:"options" gorm:"foreignKey:QuestionID"`
}

// QuizOption is one answer choice of a single/multiple question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Position   int    `json:"position" gorm:"default:0"`
}
