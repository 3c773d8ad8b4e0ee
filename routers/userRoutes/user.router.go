package userRoutes

import (
	userController "elearn/controllers/userControllers"
	"elearn/middleware"
	authValidator "elearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/user")

	userGroup.Get("/me", middleware.JWTMiddleware, userController.MyProfile)
	userGroup.Put("/update-profile", middleware.JWTMiddleware, userController.UpdateProfile)
	userGroup.Post("/update-password", middleware.JWTMiddleware, authValidator.UpdatePassword(), userController.UpdatePassword)
	userGroup.Delete("/delete-account", middleware.JWTMiddleware, userController.DeleteAccount)
	userGroup.Get("/mycourse", middleware.JWTMiddleware, userController.GetMyEnrolledCourses)
}
