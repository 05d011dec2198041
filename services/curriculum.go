package services

import (
	"context"

	"sip/models"

	"gorm.io/gorm"
)

// resolveCourse walks paragraph -> chapter -> module -> course and returns the
// course id and its owning teacher id
func resolveCourse(ctx context.Context, db *gorm.DB, paragraphID uint) (courseID uint, teacherID uint, err error) {
	var paragraph models.Paragraph
	if err = db.WithContext(ctx).First(&paragraph, paragraphID).Error; err != nil {
		return
	}
	var chapter models.Chapter
	if err = db.WithContext(ctx).First(&chapter, paragraph.ChapterID).Error; err != nil {
		return
	}
	var module models.Module
	if err = db.WithContext(ctx).First(&module, chapter.ModuleID).Error; err != nil {
		return
	}
	var course models.Course
	if err = db.WithContext(ctx).First(&course, module.CourseID).Error; err != nil {
		return
	}
	return course.ID, course.TeacherID, nil
}
