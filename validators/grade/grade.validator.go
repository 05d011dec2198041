package gradeValidator

import (
	"sip/middleware"

	"github.com/gofiber/fiber/v2"
)

// ModuleGradeRequest sets a per-module grade for one student
type ModuleGradeRequest struct {
	CourseID  uint   `json:"course_id" validate:"required"`
	ModuleID  uint   `json:"module_id" validate:"required"`
	StudentID uint   `json:"student_id" validate:"required"`
	Grade5    int    `json:"grade_5" validate:"required,min=2,max=5"`
	Comment   string `json:"comment"`
}

// FinalGradeRequest sets a yearly, exam or final grade for one student
type FinalGradeRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=yearly exam final"`
	CourseID  uint   `json:"course_id" validate:"required"`
	StudentID uint   `json:"student_id" validate:"required"`
	Grade5    int    `json:"grade_5" validate:"required,min=2,max=5"`
	Comment   string `json:"comment"`
}

// ModuleGrade validates the module grade payload
func ModuleGrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModuleGradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedModuleGrade", reqData)
		return c.Next()
	}
}

// FinalGrade validates the yearly/exam/final grade payload
func FinalGrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(FinalGradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedFinalGrade", reqData)
		return c.Next()
	}
}
