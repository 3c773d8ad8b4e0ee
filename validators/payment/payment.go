package paymentValidator

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Payment endpoints reply with flat {message} bodies, matching the
// client contract, so these validators do not use the shared envelope.

type CreateIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	CourseID uint    `json:"courseId"`
}

func CreateIntent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateIntentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		if reqData.Amount <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid amount: %v", reqData.Amount),
			})
		}

		if reqData.CourseID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Course ID required"})
		}

		if reqData.Currency == "" {
			reqData.Currency = "usd"
		}

		c.Locals("validatedCreateIntent", reqData)
		return c.Next()
	}
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	CourseID        uint   `json:"courseId"`
}

func ConfirmPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ConfirmPaymentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		if reqData.PaymentIntentID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Payment Intent ID required"})
		}

		if reqData.CourseID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Course ID required"})
		}

		c.Locals("validatedConfirmPayment", reqData)
		return c.Next()
	}
}
