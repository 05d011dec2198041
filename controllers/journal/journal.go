package controllers

import (
	"sip/database"
	"sip/middleware"
	"sip/models"
	"sip/services"
	journalValidator "sip/validators/journal"

	"github.com/gofiber/fiber/v2"
)

// GetJournal builds the grade matrix for one group and course. Admins see any
// course, teachers only their own.
func GetJournal(c *fiber.Ctx) error {
	query, ok := c.Locals("validatedJournalQuery").(*journalValidator.JournalQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	role, _ := c.Locals("role").(string)
	if role != "ADMIN" {
		teacher, err := middleware.CurrentTeacher(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher profile not found!", nil)
		}
		var course models.Course
		if err := database.Database.Db.First(&course, query.CourseID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		if course.TeacherID != teacher.ID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
	}

	svc := services.NewJournalService(database.Database.Db)
	journal, err := svc.BuildJournal(c.Context(), query.GroupID, query.CourseID, query.ModuleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Failed to build journal!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Journal fetched successfully!", journal)
}

// GetMyJournal returns the journal reduced to the authenticated student's row
func GetMyJournal(c *fiber.Ctx) error {
	courseID := c.QueryInt("course_id")
	if courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course_id is required!", nil)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student profile not found!", nil)
	}

	var moduleID *uint
	if id := c.QueryInt("module_id"); id > 0 {
		v := uint(id)
		moduleID = &v
	}

	svc := services.NewJournalService(database.Database.Db)
	journal, err := svc.BuildJournal(c.Context(), student.GroupID, uint(courseID), moduleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Failed to build journal!", nil)
	}

	var row *services.StudentRow
	for i := range journal.Students {
		if journal.Students[i].StudentID == student.ID {
			row = &journal.Students[i]
			break
		}
	}
	if row == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "You are not part of this journal!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Journal fetched successfully!", fiber.Map{
		"student":    row,
		"paragraphs": journal.Paragraphs,
		"modules":    journal.Modules,
		"course":     journal.Course,
	})
}

// ListGroups returns all groups with their levels
func ListGroups(c *fiber.Ctx) error {
	var groups []models.Group
	if err := database.Database.Db.Preload("Level").Order("id").Find(&groups).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load groups!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Groups fetched successfully!", groups)
}

// ListGroupCourses returns the courses linked to one group
func ListGroupCourses(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("id")
	if err != nil || groupID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid group ID!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Joins("JOIN course_groups ON course_groups.course_id = courses.id").
		Where("course_groups.group_id = ?", groupID).
		Preload("Subject").Preload("Level").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// ListCourseModules returns the modules of one course, ordered by number
func ListCourseModules(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	var modules []models.Module
	if err := database.Database.Db.
		Where("course_id = ?", courseID).
		Order("number ASC").
		Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}
