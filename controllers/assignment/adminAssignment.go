package controllers

import (
	"errors"
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	"sip/utils"
	assignmentValidator "sip/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ownAssignment loads an assignment and checks the teacher owns its course
func ownAssignment(c *fiber.Ctx, assignmentID uint) (*models.Assignment, *models.Teacher, error) {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return nil, nil, errors.New("teacher profile not found")
	}

	var assignment models.Assignment
	if err := database.Database.Db.First(&assignment, assignmentID).Error; err != nil {
		return nil, nil, errors.New("assignment not found")
	}

	course, err := paragraphCourse(assignment.ParagraphID)
	if err != nil {
		return nil, nil, errors.New("course not found")
	}
	if course.TeacherID != teacher.ID {
		return nil, nil, services.ErrNotOwner
	}
	return &assignment, teacher, nil
}

// paragraphCourse walks paragraph -> chapter -> module -> course
func paragraphCourse(paragraphID uint) (*models.Course, error) {
	db := database.Database.Db

	var paragraph models.Paragraph
	if err := db.First(&paragraph, paragraphID).Error; err != nil {
		return nil, err
	}
	var chapter models.Chapter
	if err := db.First(&chapter, paragraph.ChapterID).Error; err != nil {
		return nil, err
	}
	var module models.Module
	if err := db.First(&module, chapter.ModuleID).Error; err != nil {
		return nil, err
	}
	var course models.Course
	if err := db.First(&course, module.CourseID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateAssignment creates a draft assignment on a paragraph
func CreateAssignment(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*assignmentValidator.CreateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := paragraphCourse(reqData.ParagraphID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Paragraph not found!", nil)
	}
	if course.TeacherID != teacher.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	var existing models.Assignment
	if err := database.Database.Db.Where("paragraph_id = ?", reqData.ParagraphID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This paragraph already has an assignment!", nil)
	}

	assignment := models.Assignment{
		ParagraphID:  reqData.ParagraphID,
		Title:        reqData.Title,
		Instructions: reqData.Instructions,
		DueAt:        reqData.DueAt,
		MaxPoints:    reqData.MaxPoints,
		Status:       models.StatusDraft,
	}
	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// UpdateAssignment edits a draft assignment
func UpdateAssignment(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	assignment, _, err := ownAssignment(c, uint(assignmentID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if assignment.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft assignments can be edited!", nil)
	}

	reqData, ok := c.Locals("validatedAssignmentUpdate").(*assignmentValidator.UpdateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		assignment.Title = *reqData.Title
	}
	if reqData.Instructions != nil {
		assignment.Instructions = *reqData.Instructions
	}
	if reqData.DueAt != nil {
		assignment.DueAt = reqData.DueAt
	}
	if reqData.MaxPoints != nil {
		assignment.MaxPoints = *reqData.MaxPoints
	}

	if err := database.Database.Db.Save(assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}

// PublishAssignment opens the assignment to submissions
func PublishAssignment(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	assignment, _, err := ownAssignment(c, uint(assignmentID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if assignment.Status == models.StatusPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment is already published!", nil)
	}

	assignment.Status = models.StatusPublished
	if err := database.Database.Db.Save(assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment published successfully!", assignment)
}

// ListSubmissions returns all submissions of one assignment for its owner
func ListSubmissions(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	assignment, _, err := ownAssignment(c, uint(assignmentID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	query := database.Database.Db.Where("assignment_id = ?", assignment.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.AssignmentSubmission
	if err := query.
		Order("submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", submissions)
}

// GradeSubmission grades one submission and notifies the student by email
func GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := c.ParamsInt("submissionId")
	if err != nil || submissionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid submission ID!", nil)
	}

	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*assignmentValidator.GradeSubmissionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	svc := services.NewSubmissionService(database.Database.Db)
	submission, err := svc.Grade(c.Context(), uint(submissionID), teacher.ID, reqData.Grade5, reqData.Comment, reqData.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		case errors.Is(err, services.ErrInvalidGradeRange):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Grade must be between 2 and 5!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
		}
	}

	var assignment models.Assignment
	var student models.Student
	if database.Database.Db.First(&assignment, submission.AssignmentID).Error == nil &&
		database.Database.Db.First(&student, submission.StudentID).Error == nil &&
		student.Email != "" {
		go utils.SendGradeNotification(student.Email, assignment.Title, reqData.Grade5, reqData.Comment)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
