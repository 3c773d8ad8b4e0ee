package adminValidator

import (
	"elearn/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateCourseRequest struct {
	Title          string
	Category       string
	Description    string
	PriceCents     int64
	InstructorName string
	CreatedBy      string
}

// CreateCourse validates the multipart course-creation form. Price is
// accepted in integer minor units (cents).
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &CreateCourseRequest{
			Title:          strings.TrimSpace(c.FormValue("title")),
			Category:       strings.TrimSpace(c.FormValue("category")),
			Description:    strings.TrimSpace(c.FormValue("description")),
			InstructorName: strings.TrimSpace(c.FormValue("instructorName")),
			CreatedBy:      strings.TrimSpace(c.FormValue("createdBy")),
		}

		errors := make(map[string]string)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Category == "" {
			errors["category"] = "Category is required!"
		}
		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}
		if reqData.InstructorName == "" {
			errors["instructorName"] = "Instructor name is required!"
		}

		priceStr := strings.TrimSpace(c.FormValue("price"))
		if priceStr == "" {
			errors["price"] = "Price is required (in cents, 0 for free)!"
		} else {
			price, err := strconv.ParseInt(priceStr, 10, 64)
			if err != nil || price < 0 {
				errors["price"] = "Price must be a non-negative integer in cents!"
			} else {
				reqData.PriceCents = price
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

type AddLectureRequest struct {
	Title       string
	Description string
}

func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &AddLectureRequest{
			Title:       strings.TrimSpace(c.FormValue("title")),
			Description: strings.TrimSpace(c.FormValue("description")),
		}

		if reqData.Title == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
		}

		c.Locals("validatedAddLecture", reqData)
		return c.Next()
	}
}

// UserEmail validates admin actions addressed by user email
func UserEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Var(reqData.Email, "required,email"); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"email": "A valid email is required!"})
		}

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		c.Locals("validatedUserEmail", reqData)
		return c.Next()
	}
}
