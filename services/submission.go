package services

import (
	"context"
	"time"

	"sip/models"

	"gorm.io/gorm"
)

// SubmissionService handles assignment submissions and their manual grading
type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// Submit upserts the single submission per (assignment, student). A
// resubmission replaces the payload and returns the status to submitted.
func (s *SubmissionService) Submit(ctx context.Context, assignmentID, studentID uint, textAnswer, filePath string) (*models.AssignmentSubmission, error) {
	var assignment models.Assignment
	if err := s.DB.WithContext(ctx).First(&assignment, assignmentID).Error; err != nil {
		return nil, err
	}
	if assignment.Status != models.StatusPublished {
		return nil, ErrNotPublished
	}

	var submission models.AssignmentSubmission
	err := s.DB.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignment.ID, studentID).
		First(&submission).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	submission.AssignmentID = assignment.ID
	submission.StudentID = studentID
	submission.TextAnswer = textAnswer
	if filePath != "" {
		submission.FilePath = filePath
	}
	submission.SubmittedAt = time.Now()
	submission.Status = models.SubmissionSubmitted

	if err := s.DB.WithContext(ctx).Save(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// Grade applies a teacher's five-scale grade to a submission and upserts its
// unique ledger row. This path is comment/five-scale only: the points score is
// cleared. Re-grading replaces the ledger row's fields, it does not append.
func (s *SubmissionService) Grade(ctx context.Context, submissionID, teacherID uint, grade5 int, comment, status string) (*models.AssignmentSubmission, error) {
	if grade5 < 2 || grade5 > 5 {
		return nil, ErrInvalidGradeRange
	}
	if status == "" {
		status = models.SubmissionReturned
	}
	if status != models.SubmissionReturned && status != models.SubmissionNeedsFix {
		return nil, ErrInvalidGradeRange
	}

	var submission models.AssignmentSubmission
	if err := s.DB.WithContext(ctx).First(&submission, submissionID).Error; err != nil {
		return nil, err
	}
	var assignment models.Assignment
	if err := s.DB.WithContext(ctx).First(&assignment, submission.AssignmentID).Error; err != nil {
		return nil, err
	}

	courseID, courseTeacherID, err := resolveCourse(ctx, s.DB, assignment.ParagraphID)
	if err != nil {
		return nil, err
	}
	if courseTeacherID != teacherID {
		return nil, ErrNotOwner
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AssignmentSubmission{}).
			Where("id = ?", submission.ID).
			Updates(map[string]interface{}{
				"score":           nil,
				"grade_5":         grade5,
				"teacher_comment": comment,
				"status":          status,
			}).Error; err != nil {
			return err
		}

		var grade models.Grade
		err := tx.Where(
			"student_id = ? AND gradeable_kind = ? AND gradeable_id = ?",
			submission.StudentID, models.GradeableSubmission, submission.ID,
		).First(&grade).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		grade.StudentID = submission.StudentID
		grade.CourseID = courseID
		grade.TeacherID = &teacherID
		grade.GradeableKind = models.GradeableSubmission
		grade.GradeableID = submission.ID
		grade.Score = nil
		grade.Grade5 = grade5
		grade.MaxPoints = nil
		grade.Title = assignment.Title
		grade.TeacherComment = comment
		grade.GradedAt = time.Now()
		return tx.Save(&grade).Error
	})
	if err != nil {
		return nil, err
	}

	var fresh models.AssignmentSubmission
	if err := s.DB.WithContext(ctx).First(&fresh, submission.ID).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
