package assignmentRoutes

import (
	controllers "sip/controllers/assignment"
	"sip/middleware"
	validators "sip/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssignmentRoutes sets up assignment authoring, submission and grading routes
func SetupAssignmentRoutes(app *fiber.App) {
	teacherOnly := middleware.RequireRole("TEACHER")
	studentOnly := middleware.RequireRole("STUDENT")

	// Authoring and grading (teacher)
	teacherGroup := app.Group("/teacher/assignment")
	teacherGroup.Post("/create", middleware.JWTMiddleware, teacherOnly, validators.CreateAssignment(), controllers.CreateAssignment)
	teacherGroup.Put("/:id", middleware.JWTMiddleware, teacherOnly, validators.UpdateAssignment(), controllers.UpdateAssignment)
	teacherGroup.Post("/:id/publish", middleware.JWTMiddleware, teacherOnly, controllers.PublishAssignment)
	teacherGroup.Get("/:id/submissions", middleware.JWTMiddleware, teacherOnly, controllers.ListSubmissions)

	submissionGroup := app.Group("/teacher/submission")
	submissionGroup.Post("/:submissionId/grade", middleware.JWTMiddleware, teacherOnly, validators.GradeSubmission(), controllers.GradeSubmission)

	// Submitting (student)
	paragraphGroup := app.Group("/paragraph")
	paragraphGroup.Get("/:id/assignment", middleware.JWTMiddleware, studentOnly, controllers.GetParagraphAssignment)

	studentGroup := app.Group("/assignment")
	studentGroup.Get("/:id", middleware.JWTMiddleware, studentOnly, controllers.GetAssignment)
	studentGroup.Post("/:id/submit", middleware.JWTMiddleware, studentOnly, controllers.SubmitAssignment)
	studentGroup.Get("/:id/my-submission", middleware.JWTMiddleware, studentOnly, controllers.MySubmission)
}
