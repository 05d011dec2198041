package controllers

import (
	"errors"
	"math/rand"
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	quizValidator "sip/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Student-facing quiz views never expose which options are correct
type optionView struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type questionView struct {
	ID       uint         `json:"id"`
	Type     string       `json:"type"`
	Text     string       `json:"text"`
	Points   int          `json:"points"`
	Position int          `json:"position"`
	Options  []optionView `json:"options"`
}

type quizView struct {
	ID           uint           `json:"id"`
	ParagraphID  uint           `json:"paragraph_id"`
	Title        string         `json:"title"`
	Instructions string         `json:"instructions"`
	TimeLimitSec *int           `json:"time_limit_sec"`
	MaxAttempts  *int           `json:"max_attempts"`
	MaxPoints    int            `json:"max_points"`
	Questions    []questionView `json:"questions"`
}

// GetQuiz returns a published quiz for taking, shuffled when configured
func GetQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	if _, err := middleware.CurrentStudent(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var quiz models.Quiz
	if err := loadPublishedQuiz(database.Database.Db.Where("id = ?", quizID), &quiz); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", buildQuizView(&quiz))
}

// GetParagraphQuiz returns the published quiz attached to a paragraph
func GetParagraphQuiz(c *fiber.Ctx) error {
	paragraphID, err := c.ParamsInt("id")
	if err != nil || paragraphID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paragraph ID!", nil)
	}

	if _, err := middleware.CurrentStudent(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var quiz models.Quiz
	if err := loadPublishedQuiz(database.Database.Db.Where("paragraph_id = ?", paragraphID), &quiz); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", buildQuizView(&quiz))
}

func loadPublishedQuiz(query *gorm.DB, quiz *models.Quiz) error {
	if err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(quiz).Error; err != nil {
		return err
	}
	if quiz.Status != models.StatusPublished {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func buildQuizView(quiz *models.Quiz) quizView {
	view := quizView{
		ID:           quiz.ID,
		ParagraphID:  quiz.ParagraphID,
		Title:        quiz.Title,
		Instructions: quiz.Instructions,
		TimeLimitSec: quiz.TimeLimitSec,
		MaxAttempts:  quiz.MaxAttempts,
		MaxPoints:    quiz.MaxPoints,
		Questions:    make([]questionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := questionView{
			ID:       q.ID,
			Type:     q.Type,
			Text:     q.Text,
			Points:   q.Points,
			Position: q.Position,
			Options:  make([]optionView, 0, len(q.Options)),
		}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, optionView{ID: opt.ID, Text: opt.Text, Position: opt.Position})
		}
		if quiz.Shuffle {
			rand.Shuffle(len(qv.Options), func(i, j int) {
				qv.Options[i], qv.Options[j] = qv.Options[j], qv.Options[i]
			})
		}
		view.Questions = append(view.Questions, qv)
	}
	if quiz.Shuffle {
		rand.Shuffle(len(view.Questions), func(i, j int) {
			view.Questions[i], view.Questions[j] = view.Questions[j], view.Questions[i]
		})
	}

	return view
}

// StartAttempt opens a new attempt on a published quiz
func StartAttempt(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	svc := services.NewQuizAttemptService(database.Database.Db)
	attempt, err := svc.Start(c.Context(), uint(quizID), student.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotPublished):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, services.ErrAttemptLimitExceeded):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt limit reached for this quiz!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started successfully!", attempt)
}

// RecordAnswer saves or replaces the answer to one question of an attempt
func RecordAnswer(c *fiber.Ctx) error {
	attemptID, err := c.ParamsInt("id")
	if err != nil || attemptID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedAnswer").(*quizValidator.AnswerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	svc := services.NewQuizAttemptService(database.Database.Db)
	answer, err := svc.RecordAnswer(c.Context(), uint(attemptID), reqData.QuestionID, student.ID,
		reqData.SelectedOptionIDs, reqData.TextAnswer)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt is not yours!", nil)
		case errors.Is(err, services.ErrStateConflict):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is already finished!", nil)
		case errors.Is(err, services.ErrQuestionMismatch):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question does not belong to this quiz!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record answer!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer recorded successfully!", answer)
}

// FinishAttempt closes the attempt and returns the auto-graded result
func FinishAttempt(c *fiber.Ctx) error {
	attemptID, err := c.ParamsInt("id")
	if err != nil || attemptID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	svc := services.NewQuizAttemptService(database.Database.Db)
	result, err := svc.Finish(c.Context(), uint(attemptID), student.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt is not yours!", nil)
		case errors.Is(err, services.ErrAlreadyFinished):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is already finished!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finish attempt!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt finished successfully!", result)
}

// MyAttempts lists the student's attempts on one quiz, newest first
func MyAttempts(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var attempts []models.QuizAttempt
	if err := database.Database.Db.
		Where("quiz_id = ? AND student_id = ?", quizID, student.ID).
		Order("id DESC").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
