package courseController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	"elearn/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCourseTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "2000",
		JWTKey:    "test-jwt-secret",
		SaltRound: 4,
		UploadDir: t.TempDir(),
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		Name:            "Test User",
		Email:           email,
		Password:        "hashed",
		Role:            role,
		IsEmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, priceCents int64) models.Course {
	t.Helper()
	course := models.Course{Title: "Test Course", PriceCents: priceCents}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func enrollRequest(t *testing.T, user models.User, courseID uint) *http.Request {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/course/%d/enroll", courseID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func envelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestEnrollFreeCourse(t *testing.T) {
	app, db := setupCourseTest(t)
	user := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, 0)

	resp, err := app.Test(enrollRequest(t, user, course.ID), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := envelope(t, resp)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Successfully enrolled in free course.", body["message"])

	var recs []models.Enrollment
	require.NoError(t, db.Find(&recs).Error)
	require.Len(t, recs, 1)
	assert.Equal(t, models.EnrollmentKindFree, recs[0].Kind)
	assert.Equal(t, user.ID, recs[0].UserID)
	assert.Equal(t, course.ID, recs[0].CourseID)

	// repeating the enrollment is rejected without a second row
	resp, err = app.Test(enrollRequest(t, user, course.ID), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already enrolled in this course!", envelope(t, resp)["message"])

	require.NoError(t, db.Find(&recs).Error)
	assert.Len(t, recs, 1)
}

func TestEnrollPaidCourseRejected(t *testing.T) {
	app, db := setupCourseTest(t)
	user := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, 4999)

	resp, err := app.Test(enrollRequest(t, user, course.ID), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Use payment endpoint for paid courses!", envelope(t, resp)["message"])

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestEnrollAsAdmin(t *testing.T) {
	app, db := setupCourseTest(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	course := seedCourse(t, db, 4999)

	resp, err := app.Test(enrollRequest(t, admin, course.ID), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := envelope(t, resp)
	assert.Equal(t, "Admin has access to all courses.", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["isAdmin"])

	// admin access is implicit, no grant row is written
	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestEnrollCourseNotFound(t *testing.T) {
	app, db := setupCourseTest(t)
	user := seedUser(t, db, "student@example.com", models.RoleStudent)

	resp, err := app.Test(enrollRequest(t, user, 9999), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLecturesRequireEnrollment(t *testing.T) {
	app, db := setupCourseTest(t)
	user := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, 0)

	lecture := models.Lecture{CourseID: course.ID, Title: "Lesson 1", Video: "uploads/lesson1.mp4"}
	require.NoError(t, db.Create(&lecture).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/course/%d/lectures", course.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// after enrolling, lectures open up
	resp, err = app.Test(enrollRequest(t, user, course.ID), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/course/%d/lectures", course.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCourseListIsPublic(t *testing.T) {
	app, db := setupCourseTest(t)
	seedCourse(t, db, 0)
	seedCourse(t, db, 4999)

	req := httptest.NewRequest("GET", "/api/course/all", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
