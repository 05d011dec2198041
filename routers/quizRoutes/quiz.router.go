package quizRoutes

import (
	controllers "sip/controllers/quiz"
	"sip/middleware"
	validators "sip/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz authoring and quiz taking routes
func SetupQuizRoutes(app *fiber.App) {
	teacherOnly := middleware.RequireRole("TEACHER")
	studentOnly := middleware.RequireRole("STUDENT")

	// Authoring (teacher)
	teacherGroup := app.Group("/teacher/quiz")
	teacherGroup.Post("/create", middleware.JWTMiddleware, teacherOnly, validators.CreateQuiz(), controllers.CreateQuiz)
	teacherGroup.Get("/list", middleware.JWTMiddleware, teacherOnly, controllers.ListQuizzes)
	teacherGroup.Put("/:id", middleware.JWTMiddleware, teacherOnly, validators.UpdateQuiz(), controllers.UpdateQuiz)
	teacherGroup.Get("/:id", middleware.JWTMiddleware, teacherOnly, controllers.GetQuizTeacher)
	teacherGroup.Post("/:id/publish", middleware.JWTMiddleware, teacherOnly, controllers.PublishQuiz)

	// Questions and options (teacher)
	teacherGroup.Post("/:id/question", middleware.JWTMiddleware, teacherOnly, validators.Question(), controllers.AddQuestion)

	questionGroup := app.Group("/teacher/question")
	questionGroup.Put("/:questionId", middleware.JWTMiddleware, teacherOnly, validators.Question(), controllers.UpdateQuestion)
	questionGroup.Delete("/:questionId", middleware.JWTMiddleware, teacherOnly, controllers.DeleteQuestion)
	questionGroup.Post("/:questionId/option", middleware.JWTMiddleware, teacherOnly, validators.Option(), controllers.AddOption)

	optionGroup := app.Group("/teacher/option")
	optionGroup.Put("/:optionId", middleware.JWTMiddleware, teacherOnly, validators.Option(), controllers.UpdateOption)
	optionGroup.Delete("/:optionId", middleware.JWTMiddleware, teacherOnly, controllers.DeleteOption)

	// Manual grading of text answers (teacher)
	attemptAdminGroup := app.Group("/teacher/attempt")
	attemptAdminGroup.Post("/:attemptId/grade-text", middleware.JWTMiddleware, teacherOnly, validators.GradeText(), controllers.GradeTextAnswer)

	// Taking (student)
	paragraphGroup := app.Group("/paragraph")
	paragraphGroup.Get("/:id/quiz", middleware.JWTMiddleware, studentOnly, controllers.GetParagraphQuiz)

	studentGroup := app.Group("/quiz")
	studentGroup.Get("/:id", middleware.JWTMiddleware, studentOnly, controllers.GetQuiz)
	studentGroup.Post("/:id/start", middleware.JWTMiddleware, studentOnly, controllers.StartAttempt)
	studentGroup.Get("/:id/attempts", middleware.JWTMiddleware, studentOnly, controllers.MyAttempts)

	attemptGroup := app.Group("/attempt")
	attemptGroup.Post("/:id/answer", middleware.JWTMiddleware, studentOnly, validators.Answer(), controllers.RecordAnswer)
	attemptGroup.Post("/:id/finish", middleware.JWTMiddleware, studentOnly, controllers.FinishAttempt)
}
