package models

import "gorm.io/gorm"

// Teacher links a platform user to the courses they run
type Teacher struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName string `json:"full_name"`
}

// Group is a class of students (e.g. 9A)
type Group struct {
	gorm.Model
	LevelID     uint   `json:"level_id" gorm:"index;not null"`
	ClassLetter string `json:"class_letter"`

	Level Level `json:"level" gorm:"foreignKey:LevelID"`
}

// CourseGroup enrolls a group into a course
type CourseGroup struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"index:idx_course_group,unique;not null"`
	GroupID  uint `json:"group_id" gorm:"index:idx_course_group,unique;not null"`
}

// Student links a platform user to a group
type Student struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	GroupID  uint   `json:"group_id" gorm:"index;not null"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
