package journalRoutes

import (
	controllers "sip/controllers/journal"
	"sip/middleware"
	validators "sip/validators/journal"

	"github.com/gofiber/fiber/v2"
)

// SetupJournalRoutes sets up the grade journal routes
func SetupJournalRoutes(app *fiber.App) {
	staffOnly := middleware.RequireRole("TEACHER", "ADMIN")
	studentOnly := middleware.RequireRole("STUDENT")

	journalGroup := app.Group("/journal")
	journalGroup.Get("/", middleware.JWTMiddleware, staffOnly, validators.Journal(), controllers.GetJournal)
	journalGroup.Get("/my", middleware.JWTMiddleware, studentOnly, controllers.GetMyJournal)

	// Filter sources for the journal pickers
	journalGroup.Get("/groups", middleware.JWTMiddleware, staffOnly, controllers.ListGroups)
	journalGroup.Get("/groups/:id/courses", middleware.JWTMiddleware, staffOnly, controllers.ListGroupCourses)
	journalGroup.Get("/courses/:id/modules", middleware.JWTMiddleware, staffOnly, controllers.ListCourseModules)
}
