package authController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"elearn/config"
	"elearn/database"
	"elearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setActivationConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:           "test-jwt-secret",
		ActivationSecret: "test-activation-secret",
		SaltRound:        4,
	}
}

func setupAuthDb(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func TestActivationTokenRoundTrip(t *testing.T) {
	setActivationConfig(t)

	token, err := signActivationToken("Alice", "alice@example.com", "$2a$04$hash", "uploads/pic.png", models.RoleStudent, "123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, otp, err := parseActivationToken(token)
	require.NoError(t, err)

	assert.Equal(t, "123456", otp)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "$2a$04$hash", user["password"])
	assert.Equal(t, "uploads/pic.png", user["profilePic"])
	assert.Equal(t, models.RoleStudent, user["role"])
}

func TestActivationTokenTampered(t *testing.T) {
	setActivationConfig(t)

	token, err := signActivationToken("Alice", "alice@example.com", "$2a$04$hash", "", models.RoleStudent, "123456")
	require.NoError(t, err)

	// flipping a byte in the signature must invalidate the token
	tampered := token[:len(token)-2] + "xx"
	_, _, err = parseActivationToken(tampered)
	assert.Error(t, err)
}

func TestActivationTokenWrongSecret(t *testing.T) {
	setActivationConfig(t)

	token, err := signActivationToken("Alice", "alice@example.com", "$2a$04$hash", "", models.RoleStudent, "123456")
	require.NoError(t, err)

	config.AppConfig.ActivationSecret = "a-different-secret"
	_, _, err = parseActivationToken(token)
	assert.Error(t, err)
}

func TestActivationTokenGarbage(t *testing.T) {
	setActivationConfig(t)

	_, _, err := parseActivationToken("not-a-jwt")
	assert.Error(t, err)
}

func TestCreateFirstAdminBlockedWhenAdminExists(t *testing.T) {
	setActivationConfig(t)
	db := setupAuthDb(t)

	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hashed", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	app.Post("/api/user/create-admin", func(c *fiber.Ctx) error {
		c.Locals("validatedRegister", &struct {
			Name     string `json:"name" form:"name"`
			Email    string `json:"email" form:"email"`
			Password string `json:"password" form:"password"`
		}{Name: "Second", Email: "second@example.com", Password: "secret123"})
		return CreateFirstAdmin(c)
	})

	req := httptest.NewRequest("POST", "/api/user/create-admin", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "An admin already exists. Use the promote endpoint to make more admins.", body["message"])

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVerifyCreatesAdminFromBootstrapToken(t *testing.T) {
	setActivationConfig(t)
	db := setupAuthDb(t)

	token, err := signActivationToken("Root", "root@example.com", "$2a$04$hash", "", models.RoleAdmin, "654321")
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/api/user/verify", func(c *fiber.Ctx) error {
		c.Locals("validatedVerify", &struct {
			OTP             string `json:"otp"`
			ActivationToken string `json:"activationToken"`
		}{OTP: "654321", ActivationToken: token})
		return VerifyUser(c)
	})

	req := httptest.NewRequest("POST", "/api/user/verify", bytes.NewReader(nil))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, db.Where("email = ?", "root@example.com").First(&user).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsEmailVerified)
}

func TestVerifyRejectsSecondAdminBootstrap(t *testing.T) {
	setActivationConfig(t)
	db := setupAuthDb(t)

	// a bootstrap token issued before this admin appeared
	token, err := signActivationToken("Late", "late@example.com", "$2a$04$hash", "", models.RoleAdmin, "654321")
	require.NoError(t, err)

	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hashed", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	app.Post("/api/user/verify", func(c *fiber.Ctx) error {
		c.Locals("validatedVerify", &struct {
			OTP             string `json:"otp"`
			ActivationToken string `json:"activationToken"`
		}{OTP: "654321", ActivationToken: token})
		return VerifyUser(c)
	})

	req := httptest.NewRequest("POST", "/api/user/verify", bytes.NewReader(nil))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "late@example.com").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestVerifyDefaultsToStudentRole(t *testing.T) {
	setActivationConfig(t)
	db := setupAuthDb(t)

	token, err := signActivationToken("Alice", "alice@example.com", "$2a$04$hash", "", models.RoleStudent, "111222")
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/api/user/verify", func(c *fiber.Ctx) error {
		c.Locals("validatedVerify", &struct {
			OTP             string `json:"otp"`
			ActivationToken string `json:"activationToken"`
		}{OTP: "111222", ActivationToken: token})
		return VerifyUser(c)
	})

	req := httptest.NewRequest("POST", "/api/user/verify", bytes.NewReader(nil))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Equal(t, models.RoleStudent, user.Role)
}
