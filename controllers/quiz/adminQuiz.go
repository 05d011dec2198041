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

// ownQuiz loads a quiz and checks the authenticated teacher owns its course
func ownQuiz(c *fiber.Ctx, quizID uint) (*models.Quiz, *models.Teacher, error) {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return nil, nil, errors.New("teacher profile not found")
	}

	var quiz models.Quiz
	if err := database.Database.Db.First(&quiz, quizID).Error; err != nil {
		return nil, nil, errors.New("quiz not found")
	}

	course, err := paragraphCourse(quiz.ParagraphID)
	if err != nil {
		return nil, nil, errors.New("course not found")
	}
	if course.TeacherID != teacher.ID {
		return nil, nil, services.ErrNotOwner
	}
	return &quiz, teacher, nil
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

// CreateQuiz creates a draft quiz on a paragraph
func CreateQuiz(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.CreateQuizRequest)
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

	var existing models.Quiz
	if err := database.Database.Db.Where("paragraph_id = ?", reqData.ParagraphID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This paragraph already has a quiz!", nil)
	}

	quiz := models.Quiz{
		ParagraphID:  reqData.ParagraphID,
		Title:        reqData.Title,
		Instructions: reqData.Instructions,
		TimeLimitSec: reqData.TimeLimitSec,
		MaxAttempts:  reqData.MaxAttempts,
		Shuffle:      reqData.Shuffle,
		Status:       models.StatusDraft,
	}
	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// UpdateQuiz updates a draft quiz's settings
func UpdateQuiz(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedQuizUpdate").(*quizValidator.UpdateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.Instructions != nil {
		quiz.Instructions = *reqData.Instructions
	}
	if reqData.TimeLimitSec != nil {
		quiz.TimeLimitSec = reqData.TimeLimitSec
	}
	if reqData.MaxAttempts != nil {
		quiz.MaxAttempts = reqData.MaxAttempts
	}
	if reqData.Shuffle != nil {
		quiz.Shuffle = *reqData.Shuffle
	}

	if err := database.Database.Db.Save(quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// GetQuizTeacher returns the full quiz with correct answers for its owner
func GetQuizTeacher(c *fiber.Ctx) error {
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

	var full models.Quiz
	if err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&full, quiz.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", full)
}

// ListQuizzes returns every quiz of the teacher's courses
func ListQuizzes(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
	}

	var quizzes []models.Quiz
	if err := database.Database.Db.
		Joins("JOIN paragraphs ON paragraphs.id = quizzes.paragraph_id").
		Joins("JOIN chapters ON chapters.id = paragraphs.chapter_id").
		Joins("JOIN modules ON modules.id = chapters.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.teacher_id = ?", teacher.ID).
		Order("quizzes.id").
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

// PublishQuiz freezes the quiz's maximum score and opens it to students
func PublishQuiz(c *fiber.Ctx) error {
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
	if quiz.Status == models.StatusPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz is already published!", nil)
	}

	var questions []models.QuizQuestion
	if err := database.Database.Db.Preload("Options").
		Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot publish a quiz without questions!", nil)
	}

	maxPoints := 0
	for _, q := range questions {
		if q.Type != models.QuestionText {
			hasCorrect := false
			for _, opt := range q.Options {
				if opt.IsCorrect {
					hasCorrect = true
					break
				}
			}
			if !hasCorrect {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
					"Every choice question needs at least one correct option!", nil)
			}
		}
		maxPoints += q.Points
	}

	quiz.Status = models.StatusPublished
	quiz.MaxPoints = maxPoints
	if err := database.Database.Db.Save(quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz published successfully!", quiz)
}
