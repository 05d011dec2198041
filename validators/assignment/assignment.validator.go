package assignmentValidator

import (
	"sip/middleware"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateAssignmentRequest is the payload for creating a draft assignment
type CreateAssignmentRequest struct {
	ParagraphID  uint       `json:"paragraph_id" validate:"required"`
	Title        string     `json:"title" validate:"required,min=3"`
	Instructions string     `json:"instructions"`
	DueAt        *time.Time `json:"due_at"`
	MaxPoints    int        `json:"max_points" validate:"omitempty,gt=0"`
}

// UpdateAssignmentRequest carries optional fields; nil pointers keep the value
type UpdateAssignmentRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=3"`
	Instructions *string    `json:"instructions"`
	DueAt        *time.Time `json:"due_at"`
	MaxPoints    *int       `json:"max_points" validate:"omitempty,gt=0"`
}

// GradeSubmissionRequest is the teacher's grade for a submission
type GradeSubmissionRequest struct {
	Grade5  int    `json:"grade_5" validate:"required,min=2,max=5"`
	Comment string `json:"comment"`
	Status  string `json:"status" validate:"omitempty,oneof=returned needs_fix"`
}

// CreateAssignment validates assignment creation payload
func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// UpdateAssignment validates assignment update payload
func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Title != nil {
			trimmed := strings.TrimSpace(*reqData.Title)
			reqData.Title = &trimmed
		}

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedAssignmentUpdate", reqData)
		return c.Next()
	}
}

// GradeSubmission validates the grading payload
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeSubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Status = strings.TrimSpace(reqData.Status)

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
