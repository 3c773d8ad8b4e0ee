package paymentRoutes

import (
	paymentController "elearn/controllers/payment"
	"elearn/middleware"
	paymentValidator "elearn/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/api/payment")

	paymentGroup.Post("/create-intent", middleware.JWTMiddleware, paymentValidator.CreateIntent(), paymentController.CreatePaymentIntent)
	paymentGroup.Post("/confirm", middleware.JWTMiddleware, paymentValidator.ConfirmPayment(), paymentController.ConfirmPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, paymentController.GetPaymentHistory)

	// Webhook is authenticated by its signature over the raw body, not by
	// a bearer token. Nothing may parse the body before the handler.
	paymentGroup.Post("/webhook", paymentController.HandleWebhook)
}
