package controllers

import (
	"errors"
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	gradeValidator "sip/validators/grade"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func gradeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidGradeRange):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Grade must be between 2 and 5!", nil)
	case errors.Is(err, services.ErrNotOwner):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	case errors.Is(err, services.ErrLevelIneligible):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam grades are only allowed for levels 9 and 11!", nil)
	case errors.Is(err, services.ErrStudentNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student is not enrolled in this course!", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save grade!", nil)
	}
}

// SetModuleGrade upserts one student's grade for a module
func SetModuleGrade(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedModuleGrade").(*gradeValidator.ModuleGradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	svc := services.NewGradeLedgerService(database.Database.Db)
	grade, err := svc.SetModuleGrade(c.Context(), teacher.ID, reqData.CourseID, reqData.ModuleID,
		reqData.StudentID, reqData.Grade5, reqData.Comment)
	if err != nil {
		return gradeError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module grade saved successfully!", grade)
}

// SetFinalGrade upserts a yearly, exam or final grade for one student
func SetFinalGrade(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedFinalGrade").(*gradeValidator.FinalGradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	svc := services.NewGradeLedgerService(database.Database.Db)
	grade, err := svc.SetFinalGrade(c.Context(), models.GradeableKind(reqData.Kind), teacher.ID,
		reqData.CourseID, reqData.StudentID, reqData.Grade5, reqData.Comment)
	if err != nil {
		return gradeError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final grade saved successfully!", grade)
}

// DeleteGrade removes a manually set module or term grade
func DeleteGrade(c *fiber.Ctx) error {
	gradeID, err := c.ParamsInt("id")
	if err != nil || gradeID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid grade ID!", nil)
	}

	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	svc := services.NewGradeLedgerService(database.Database.Db)
	if err := svc.DeleteGrade(c.Context(), teacher.ID, uint(gradeID)); err != nil {
		return gradeError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Grade deleted successfully!", nil)
}

// ListFinalGrades returns the yearly/exam/final block for each student of a
// course, optionally restricted to one group
func ListFinalGrades(c *fiber.Ctx) error {
	courseID := c.QueryInt("course_id")
	if courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course_id is required!", nil)
	}

	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	var groupID *uint
	if id := c.QueryInt("group_id"); id > 0 {
		v := uint(id)
		groupID = &v
	}

	svc := services.NewGradeLedgerService(database.Database.Db)
	rows, err := svc.ListFinalGrades(c.Context(), teacher.ID, uint(courseID), groupID)
	if err != nil {
		return gradeError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final grades fetched successfully!", rows)
}
