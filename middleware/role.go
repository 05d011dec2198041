package middleware

import (
	"sip/database"
	"sip/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole returns a middleware that checks the role claim set by JWTMiddleware
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "You do not have permission to access this resource!",
			"data":    nil,
		})
	}
}

// CurrentStudent resolves the student row for the authenticated user
func CurrentStudent(c *fiber.Ctx) (*models.Student, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var student models.Student
	if err := database.Database.Db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// CurrentTeacher resolves the teacher row for the authenticated user
func CurrentTeacher(c *fiber.Ctx) (*models.Teacher, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var teacher models.Teacher
	if err := database.Database.Db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}
