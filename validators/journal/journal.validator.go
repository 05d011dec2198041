package journalValidator

import (
	"sip/middleware"

	"github.com/gofiber/fiber/v2"
)

// JournalQuery identifies the journal to build
type JournalQuery struct {
	GroupID  uint
	CourseID uint
	ModuleID *uint
}

// Journal validates the group/course/module query parameters
func Journal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID := c.QueryInt("group_id")
		courseID := c.QueryInt("course_id")

		errs := make(map[string]string)
		if groupID <= 0 {
			errs["group_id"] = "A valid group_id is required!"
		}
		if courseID <= 0 {
			errs["course_id"] = "A valid course_id is required!"
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		query := &JournalQuery{GroupID: uint(groupID), CourseID: uint(courseID)}
		if moduleID := c.QueryInt("module_id"); moduleID > 0 {
			id := uint(moduleID)
			query.ModuleID = &id
		}

		c.Locals("validatedJournalQuery", query)
		return c.Next()
	}
}
