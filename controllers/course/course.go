package courseController

import (
	"elearn/database"
	"elearn/enrollment"
	"elearn/middleware"
	"elearn/models"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists courses, optionally paginated. Public.
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		var courses []models.Course
		if err := db.Where("is_deleted = ?", false).Order("created_at desc").Find(&courses).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
			"courses": courses,
		})
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	query := db.Model(&models.Course{}).Where("is_deleted = ?", false)

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a single course. Public.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", fiber.Map{
		"course": course,
	})
}

// FetchLectures lists a course's lectures. Access requires a grant for
// the course; admins bypass the check.
func FetchLectures(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var lectures []models.Lecture
	if err := db.Where("course_id = ?", courseID).Order("created_at asc").Find(&lectures).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully.", fiber.Map{
			"lectures": lectures,
		})
	}

	enrolled, err := enrollment.IsEnrolled(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}
	if !enrolled {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "You are not enrolled in this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully.", fiber.Map{
		"lectures": lectures,
	})
}

// FetchLecture returns a single lecture, gated like FetchLectures
func FetchLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lectureID := c.Locals("lectureID").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var lecture models.Lecture
	if err := db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		enrolled, err := enrollment.IsEnrolled(db, userID, lecture.CourseID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
		}
		if !enrolled {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "You are not enrolled in this course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully.", fiber.Map{
		"lecture": lecture,
	})
}
