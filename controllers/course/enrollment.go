package courseController

import (
	"elearn/database"
	"elearn/enrollment"
	"elearn/middleware"
	"elearn/models"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse is the free-course enrollment path. Paid courses are
// enrolled through the payment endpoints only.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Admin has access to every course; nothing is written.
	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin has access to all courses.", fiber.Map{
			"enrolled": true,
			"isAdmin":  true,
		})
	}

	if !course.IsFree() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Use payment endpoint for paid courses!", nil)
	}

	newly, err := enrollment.GrantFree(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	if !newly {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in free course.", fiber.Map{
		"enrolled": true,
	})
}
