package authRoutes

import (
	authController "elearn/controllers/auth"
	authValidator "elearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/user")

	authGroup.Post("/register", authValidator.Register(), authController.Register)
	authGroup.Post("/verify", authValidator.VerifyUser(), authController.VerifyUser)
	authGroup.Post("/resend-otp", authValidator.ResendOTP(), authController.ResendOTP)
	authGroup.Post("/login", authValidator.Login(), authController.Login)

	// Public bootstrap; the handler refuses once any admin exists
	authGroup.Post("/create-admin", authValidator.Register(), authController.CreateFirstAdmin)
	authGroup.Post("/forgot-password/send-otp", authValidator.ForgotPasswordSendOTP(), authController.ForgotPasswordSendOTP)
	authGroup.Post("/forgot-password/reset", authValidator.ForgotPasswordReset(), authController.ForgotPasswordReset)
}
