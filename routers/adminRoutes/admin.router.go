package adminRoutes

import (
	adminController "elearn/controllers/admin"
	"elearn/middleware"
	"elearn/models"
	adminValidator "elearn/validators/admin"
	courseValidator "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Post("/course", adminValidator.CreateCourse(), adminController.CreateCourse)
	adminGroup.Post("/course/:id/lecture", courseValidator.CourseID(), adminValidator.AddLecture(), adminController.AddLecture)
	adminGroup.Delete("/course/:id", courseValidator.CourseID(), adminController.DeleteCourse)
	adminGroup.Delete("/lecture/:id", courseValidator.LectureID(), adminController.DeleteLecture)

	adminGroup.Post("/promote", adminValidator.UserEmail(), adminController.PromoteToAdmin)
	adminGroup.Post("/demote", adminValidator.UserEmail(), adminController.DemoteFromAdmin)
	adminGroup.Get("/users", adminController.GetAllUsers)
	adminGroup.Delete("/user", adminValidator.UserEmail(), adminController.DeleteUserByAdmin)
}
