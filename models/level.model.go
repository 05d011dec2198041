package models

import "gorm.io/gorm"

// Level represents a school year (1-11)
type Level struct {
	gorm.Model
	Number int `json:"number" gorm:"uniqueIndex;not null"`
}

// Subject represents a taught subject (Physics, Algebra, ...)
type Subject struct {
	gorm.Model
	Name string `json:"name" gorm:"not null"`
}
