package models

import "gorm.io/gorm"

// Course binds a subject to a level and the teacher who runs it
type Course struct {
	gorm.Model
	SubjectID uint   `json:"subject_id" gorm:"index;not null"`
	LevelID   uint   `json:"level_id" gorm:"index;not null"`
	TeacherID uint   `json:"teacher_id" gorm:"index;not null"`
	Title     string `json:"title"`

	Subject Subject `json:"subject" gorm:"foreignKey:SubjectID"`
	Level   Level   `json:"level" gorm:"foreignKey:LevelID"`
	Modules []Module `json:"modules" gorm:"foreignKey:CourseID"`
}

// Module is a numbered section of a course
type Module struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Number   int    `json:"number" gorm:"not null"`
	Title    string `json:"title"`

	Chapters []Chapter `json:"chapters" gorm:"foreignKey:ModuleID"`
}

// Chapter is a numbered section of a module
type Chapter struct {
	gorm.Model
	ModuleID uint   `json:"module_id" gorm:"index;not null"`
	Number   int    `json:"number" gorm:"not null"`
	Title    string `json:"title"`

	Paragraphs []Paragraph `json:"paragraphs" gorm:"foreignKey:ChapterID"`
}

// Paragraph is the leaf curriculum node; it carries at most one quiz and one assignment
type Paragraph struct {
	gorm.Model
	ChapterID uint   `json:"chapter_id" gorm:"index;not null"`
	Number    int    `json:"number" gorm:"not null"`
	Title     string `json:"title"`
}
