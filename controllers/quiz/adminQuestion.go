package controllers

import (
	"errors"
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	quizValidator "sip/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ownQuestion loads a question and checks ownership through its quiz
func ownQuestion(c *fiber.Ctx, questionID uint) (*models.QuizQuestion, *models.Quiz, error) {
	var question models.QuizQuestion
	if err := database.Database.Db.First(&question, questionID).Error; err != nil {
		return nil, nil, errors.New("question not found")
	}
	quiz, _, err := ownQuiz(c, question.QuizID)
	if err != nil {
		return nil, nil, err
	}
	return &question, quiz, nil
}

// AddQuestion appends a question to a draft quiz
func AddQuestion(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	quiz, _, err := ownQuiz(c, uint(quizID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var count int64
	database.Database.Db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&count)

	question := models.QuizQuestion{
		QuizID:   quiz.ID,
		Type:     reqData.Type,
		Text:     reqData.Text,
		Points:   reqData.Points,
		Position: int(count) + 1,
	}
	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// UpdateQuestion edits a question of a draft quiz
func UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("questionId")
	if err != nil || questionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	question, quiz, err := ownQuestion(c, uint(questionID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Options no longer make sense when a choice question turns into a text one
	if question.Type != models.QuestionText && reqData.Type == models.QuestionText {
		database.Database.Db.Where("question_id = ?", question.ID).Delete(&models.QuizOption{})
	}

	question.Type = reqData.Type
	question.Text = reqData.Text
	question.Points = reqData.Points

	if err := database.Database.Db.Save(question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

// DeleteQuestion removes a question and compacts the remaining positions
func DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("questionId")
	if err != nil || questionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	question, quiz, err := ownQuestion(c, uint(questionID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuizOption{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(question).Error; err != nil {
			return err
		}
		return tx.Model(&models.QuizQuestion{}).
			Where("quiz_id = ? AND position > ?", quiz.ID, question.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// AddOption appends an answer option to a choice question
func AddOption(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("questionId")
	if err != nil || questionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	question, quiz, err := ownQuestion(c, uint(questionID))
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}
	if question.Type == models.QuestionText {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Text questions cannot have options!", nil)
	}

	reqData, ok := c.Locals("validatedOption").(*quizValidator.OptionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var count int64
	database.Database.Db.Model(&models.QuizOption{}).Where("question_id = ?", question.ID).Count(&count)

	option := models.QuizOption{
		QuestionID: question.ID,
		Text:       reqData.Text,
		IsCorrect:  reqData.IsCorrect,
		Position:   int(count) + 1,
	}
	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Option added successfully!", option)
}

// UpdateOption edits an answer option
func UpdateOption(c *fiber.Ctx) error {
	optionID, err := c.ParamsInt("optionId")
	if err != nil || optionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid option ID!", nil)
	}

	var option models.QuizOption
	if err := database.Database.Db.First(&option, optionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Option not found!", nil)
	}

	_, quiz, err := ownQuestion(c, option.QuestionID)
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}

	reqData, ok := c.Locals("validatedOption").(*quizValidator.OptionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	option.Text = reqData.Text
	option.IsCorrect = reqData.IsCorrect
	if err := database.Database.Db.Save(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Option updated successfully!", option)
}

// DeleteOption removes an answer option and compacts positions
func DeleteOption(c *fiber.Ctx) error {
	optionID, err := c.ParamsInt("optionId")
	if err != nil || optionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid option ID!", nil)
	}

	var option models.QuizOption
	if err := database.Database.Db.First(&option, optionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Option not found!", nil)
	}

	_, quiz, err := ownQuestion(c, option.QuestionID)
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if quiz.Status != models.StatusDraft {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only draft quizzes can be edited!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&option).Error; err != nil {
			return err
		}
		return tx.Model(&models.QuizOption{}).
			Where("question_id = ? AND position > ?", option.QuestionID, option.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Option deleted successfully!", nil)
}

// GradeTextAnswer stores a teacher's manual score for a text answer
func GradeTextAnswer(c *fiber.Ctx) error {
	attemptID, err := c.ParamsInt("attemptId")
	if err != nil || attemptID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt ID!", nil)
	}

	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedGradeText").(*quizValidator.GradeTextRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	svc := services.NewQuizAttemptService(database.Database.Db)
	attempt, err := svc.GradeTextAnswer(c.Context(), uint(attemptID), reqData.QuestionID, teacher.ID, reqData.Score)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		case errors.Is(err, services.ErrStateConflict):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is not awaiting manual grading!", nil)
		case errors.Is(err, services.ErrNotTextQuestion):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question is not a text question!", nil)
		case errors.Is(err, services.ErrScoreOutOfRange):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Score exceeds the question's points!", nil)
		case errors.Is(err, services.ErrQuestionMismatch):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question does not belong to this quiz!", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade answer!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer graded successfully!", attempt)
}
