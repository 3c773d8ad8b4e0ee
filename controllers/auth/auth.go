package authController

import (
	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	"elearn/utils"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Registration is a two-step flow: Register emails an OTP and hands back
// a short-lived activation token carrying the pending user; VerifyUser
// checks the OTP against the token and only then creates the account.
// No user row exists until the email is verified.

func signActivationToken(name, email, hashedPassword, profilePic, role, otp string) (string, error) {
	claims := jwt.MapClaims{
		"user": map[string]interface{}{
			"name":       name,
			"email":      email,
			"password":   hashedPassword,
			"profilePic": profilePic,
			"role":       role,
		},
		"otp": otp,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.ActivationSecret))
}

func parseActivationToken(tokenString string) (user map[string]interface{}, otp string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.ActivationSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, "", fmt.Errorf("invalid or expired activation token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", fmt.Errorf("malformed activation token")
	}

	user, ok = claims["user"].(map[string]interface{})
	if !ok {
		return nil, "", fmt.Errorf("malformed activation token")
	}

	otp, ok = claims["otp"].(string)
	if !ok {
		return nil, "", fmt.Errorf("malformed activation token")
	}

	return user, otp, nil
}

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*struct {
		Name     string `json:"name" form:"name"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already exists!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Optional profile picture
	profilePic := ""
	if file, err := c.FormFile("profilePic"); err == nil {
		if path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir); err == nil {
			profilePic = path
		} else {
			log.Printf("Error saving profile picture: %v", err)
		}
	}

	otp := utils.GenerateOTP()

	activationToken, err := signActivationToken(reqData.Name, reqData.Email, string(hashedPassword), profilePic, models.RoleStudent, otp)
	if err != nil {
		log.Printf("Error signing activation token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := utils.SendOTPEmail(otp, reqData.Email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your registered email.", fiber.Map{
		"activationToken": activationToken,
	})
}

// CreateFirstAdmin bootstraps the first admin account on a fresh
// deployment. Public, but refuses as soon as any admin exists; later
// admins come through the promote endpoint. The account goes through
// the same OTP verification as a regular registration, with the role
// carried inside the signed activation token.
func CreateFirstAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*struct {
		Name     string `json:"name" form:"name"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("role = ?", models.RoleAdmin).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false,
			"An admin already exists. Use the promote endpoint to make more admins.", nil)
	}

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already exists!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	otp := utils.GenerateOTP()

	activationToken, err := signActivationToken(reqData.Name, reqData.Email, string(hashedPassword), "", models.RoleAdmin, otp)
	if err != nil {
		log.Printf("Error signing activation token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := utils.SendOTPEmail(otp, reqData.Email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your email. Verify to complete admin account creation.", fiber.Map{
		"activationToken": activationToken,
	})
}

func VerifyUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*struct {
		OTP             string `json:"otp"`
		ActivationToken string `json:"activationToken"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	pendingUser, otp, err := parseActivationToken(reqData.ActivationToken)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired activation token!", nil)
	}

	if otp != reqData.OTP {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Wrong OTP!", nil)
	}

	name, _ := pendingUser["name"].(string)
	email, _ := pendingUser["email"].(string)
	password, _ := pendingUser["password"].(string)
	profilePic, _ := pendingUser["profilePic"].(string)
	role, _ := pendingUser["role"].(string)
	if role == "" {
		role = models.RoleStudent
	}

	if name == "" || email == "" || password == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Token missing required user info!", nil)
	}

	db := database.Database.Db

	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already registered!", nil)
	}

	// Re-check the bootstrap condition: an admin token issued before
	// another admin was created must not mint a second one.
	if role == models.RoleAdmin {
		if err := db.Where("role = ?", models.RoleAdmin).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false,
				"An admin already exists. Use the promote endpoint to make more admins.", nil)
		}
	}

	newUser := models.User{
		Name:            name,
		Email:           email,
		Password:        password,
		ProfilePic:      profilePic,
		Role:            role,
		IsEmailVerified: true,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func ResendOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResend").(*struct {
		ActivationToken string `json:"activationToken"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	pendingUser, _, err := parseActivationToken(reqData.ActivationToken)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired activation token!", nil)
	}

	name, _ := pendingUser["name"].(string)
	email, _ := pendingUser["email"].(string)
	password, _ := pendingUser["password"].(string)
	profilePic, _ := pendingUser["profilePic"].(string)
	role, _ := pendingUser["role"].(string)
	if role == "" {
		role = models.RoleStudent
	}

	if name == "" || email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Token missing required user info!", nil)
	}

	otp := utils.GenerateOTP()

	newToken, err := signActivationToken(name, email, password, profilePic, role, otp)
	if err != nil {
		log.Printf("Error signing activation token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := utils.SendOTPEmail(otp, email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP resent to your email.", fiber.Map{
		"activationToken": newToken,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := database.Database.Db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("Welcome back %s.", user.Name), fiber.Map{
		"user":  user,
		"token": token,
	})
}

func ForgotPasswordSendOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotSend").(*struct {
		Email string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email!", nil)
	}

	otp := utils.GenerateOTP()

	otpRecord := models.OTP{
		UserID:      user.ID,
		Email:       reqData.Email,
		Code:        otp,
		ExpiresAt:   time.Now().Add(5 * time.Minute),
		Description: "Password Reset OTP",
	}

	if err := utils.SendOTPEmail(otp, reqData.Email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	if err := database.Database.Db.Create(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func ForgotPasswordReset(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotReset").(*struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := db.Where("email = ? AND code = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Code, false, false).First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP!", nil)
	}

	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	otpRecord.IsUsed = true
	if err := db.Save(&otpRecord).Error; err != nil {
		log.Printf("Error marking OTP as used: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}
