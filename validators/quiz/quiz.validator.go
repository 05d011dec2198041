package quizValidator

import (
	"sip/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateQuizRequest is the payload for creating a draft quiz on a paragraph
type CreateQuizRequest struct {
	ParagraphID  uint   `json:"paragraph_id" validate:"required"`
	Title        string `json:"title" validate:"required,min=3"`
	Instructions string `json:"instructions"`
	TimeLimitSec *int   `json:"time_limit_sec" validate:"omitempty,gt=0"`
	MaxAttempts  *int   `json:"max_attempts" validate:"omitempty,gt=0"`
	Shuffle      bool   `json:"shuffle"`
}

// UpdateQuizRequest carries optional quiz fields; nil pointers keep the value
type UpdateQuizRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3"`
	Instructions *string `json:"instructions"`
	TimeLimitSec *int    `json:"time_limit_sec" validate:"omitempty,gt=0"`
	MaxAttempts  *int    `json:"max_attempts" validate:"omitempty,gt=0"`
	Shuffle      *bool   `json:"shuffle"`
}

// QuestionRequest is the payload for adding or updating a question
type QuestionRequest struct {
	Type   string `json:"type" validate:"required,oneof=single multiple text"`
	Text   string `json:"text" validate:"required"`
	Points int    `json:"points" validate:"required,gt=0"`
}

// OptionRequest is the payload for adding or updating an answer option
type OptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// AnswerRequest is a student's answer to one question of an attempt
type AnswerRequest struct {
	QuestionID        uint    `json:"question_id" validate:"required"`
	SelectedOptionIDs []uint  `json:"selected_option_ids"`
	TextAnswer        *string `json:"text_answer"`
}

// GradeTextRequest is a teacher's manual score for a text answer
type GradeTextRequest struct {
	QuestionID uint `json:"question_id" validate:"required"`
	Score      int  `json:"score" validate:"min=0"`
}

// CreateQuiz validates quiz creation payload
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates quiz update payload
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuizRequest)
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

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// Question validates a question create/update payload
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Text = strings.TrimSpace(reqData.Text)

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// Option validates an option create/update payload
func Option() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OptionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Text = strings.TrimSpace(reqData.Text)

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedOption", reqData)
		return c.Next()
	}
}

// Answer validates a student answer payload
func Answer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errs := middleware.ValidateStruct(reqData)
		if len(reqData.SelectedOptionIDs) > 0 && reqData.TextAnswer != nil {
			errs["answer"] = "Send either selected options or a text answer, not both!"
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

// GradeText validates a manual text-answer grading payload
func GradeText() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeTextRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := middleware.ValidateStruct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedGradeText", reqData)
		return c.Next()
	}
}
