package courseRoutes

import (
	courseController "elearn/controllers/course"
	"elearn/middleware"
	courseValidator "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/course")

	// Course listing and details are public
	courseGroup.Get("/all", courseValidator.CourseList(), courseController.GetAllCourses)
	courseGroup.Get("/:id", courseValidator.CourseID(), courseController.GetCourseDetails)

	// Lecture access requires enrollment
	courseGroup.Get("/:id/lectures", middleware.JWTMiddleware, courseValidator.CourseID(), courseController.FetchLectures)

	// Free-course enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), courseController.EnrollInCourse)

	lectureGroup := app.Group("/api/lecture")
	lectureGroup.Get("/:id", middleware.JWTMiddleware, courseValidator.LectureID(), courseController.FetchLecture)
}
