package adminController

import (
	"elearn/config"
	"elearn/database"
	"elearn/enrollment"
	"elearn/middleware"
	"elearn/models"
	"elearn/utils"
	adminValidator "elearn/validators/admin"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateCourse").(*adminValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			log.Printf("Error saving course image: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save course image!", nil)
		}
		imagePath = path
	}

	course := models.Course{
		Title:          reqData.Title,
		Category:       reqData.Category,
		Description:    reqData.Description,
		PriceCents:     reqData.PriceCents,
		InstructorName: reqData.InstructorName,
		CreatedBy:      reqData.CreatedBy,
		Image:          imagePath,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error saving course to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func AddLecture(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedAddLecture").(*adminValidator.AddLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No course with this ID!", nil)
	}

	videoPath := ""
	if file, err := c.FormFile("video"); err == nil {
		path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			log.Printf("Error saving lecture video: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save lecture video!", nil)
		}
		videoPath = path
	} else {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture video is required!", nil)
	}

	lecture := models.Lecture{
		Title:       reqData.Title,
		Description: reqData.Description,
		Video:       videoPath,
		CourseID:    course.ID,
		CreatedBy:   userID,
	}

	if err := db.Create(&lecture).Error; err != nil {
		log.Printf("Error saving lecture to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture added successfully.", lecture)
}

func DeleteLecture(c *fiber.Ctx) error {
	lectureID := c.Locals("lectureID").(uint)

	db := database.Database.Db

	var lecture models.Lecture
	if err := db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if err := utils.RemoveFile(lecture.Video); err != nil {
		log.Printf("Error deleting lecture video: %v", err)
	}

	if err := db.Delete(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully.", nil)
}

// DeleteCourse removes a course, its lectures and stored media, and
// revokes every enrollment grant for it.
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := utils.RemoveFile(course.Image); err != nil {
		log.Printf("Error deleting course image: %v", err)
	}

	var lectures []models.Lecture
	if err := db.Where("course_id = ?", course.ID).Find(&lectures).Error; err == nil {
		for _, lecture := range lectures {
			if err := utils.RemoveFile(lecture.Video); err != nil {
				log.Printf("Error deleting lecture video: %v", err)
			}
		}
	}

	tx := db.Begin()
	if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lecture{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lectures!", nil)
	}
	if err := enrollment.Revoke(tx, course.ID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke enrollments!", nil)
	}
	course.IsDeleted = true
	if err := tx.Save(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

func PromoteToAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserEmail").(*struct {
		Email string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is already an admin!", nil)
	}

	user.Role = models.RoleAdmin
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to promote user!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("%s has been promoted to admin.", user.Name), user)
}

func DemoteFromAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserEmail").(*struct {
		Email string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is not an admin!", nil)
	}

	user.Role = models.RoleStudent
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to demote user!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("%s has been demoted from admin.", user.Name), user)
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"users": users,
		"total": len(users),
	})
}

func DeleteUserByAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserEmail").(*struct {
		Email string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete an admin account!", nil)
	}

	user.IsDeleted = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}
