package controllers

import (
	"errors"
	"sip/config"
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	"sip/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAssignment returns one published assignment
func GetAssignment(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	if _, err := middleware.CurrentStudent(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var assignment models.Assignment
	if err := database.Database.Db.First(&assignment, assignmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if assignment.Status != models.StatusPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", assignment)
}

// GetParagraphAssignment returns the published assignment attached to a paragraph
func GetParagraphAssignment(c *fiber.Ctx) error {
	paragraphID, err := c.ParamsInt("id")
	if err != nil || paragraphID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paragraph ID!", nil)
	}

	if _, err := middleware.CurrentStudent(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var assignment models.Assignment
	if err := database.Database.Db.
		Where("paragraph_id = ? AND status = ?", paragraphID, models.StatusPublished).
		First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", assignment)
}

// SubmitAssignment accepts a text answer and an optional file upload. The
// request is multipart; resubmitting replaces the previous submission.
func SubmitAssignment(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	textAnswer := strings.TrimSpace(c.FormValue("text_answer"))

	filePath := ""
	if file, err := c.FormFile("file"); err == nil && file != nil {
		savedPath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
		}
		filePath = savedPath
	}

	if textAnswer == "" && filePath == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Provide a text answer or a file!", nil)
	}

	svc := services.NewSubmissionService(database.Database.Db)
	submission, err := svc.Submit(c.Context(), uint(assignmentID), student.ID, textAnswer, filePath)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotPublished):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// MySubmission returns the student's submission for one assignment
func MySubmission(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var submission models.AssignmentSubmission
	if err := database.Database.Db.
		Where("assignment_id = ? AND student_id = ?", assignmentID, student.ID).
		First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", submission)
}
