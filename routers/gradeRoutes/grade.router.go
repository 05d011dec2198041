package gradeRoutes

import (
	controllers "sip/controllers/grade"
	"sip/middleware"
	validators "sip/validators/grade"

	"github.com/gofiber/fiber/v2"
)

// SetupGradeRoutes sets up module and final grade management routes
func SetupGradeRoutes(app *fiber.App) {
	teacherOnly := middleware.RequireRole("TEACHER")

	gradeGroup := app.Group("/teacher/grade")
	gradeGroup.Post("/module", middleware.JWTMiddleware, teacherOnly, validators.ModuleGrade(), controllers.SetModuleGrade)
	gradeGroup.Post("/final", middleware.JWTMiddleware, teacherOnly, validators.FinalGrade(), controllers.SetFinalGrade)
	gradeGroup.Get("/final", middleware.JWTMiddleware, teacherOnly, controllers.ListFinalGrades)
	gradeGroup.Delete("/:id", middleware.JWTMiddleware, teacherOnly, controllers.DeleteGrade)
}
