package authController

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"svault/config"
	"svault/database"
	"svault/middleware"
	"svault/models"
	"svault/utils"
	authValidator "svault/validators/auth"
)

// Register creates an identity with a hashed password.
func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.RegisterRequest)

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"email": "Email is already registered!",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:     reqData.Email,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Password:  string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"email": newUser.Email,
	})
}

// Login verifies the credential and issues a token pair.
func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.LoginRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = time.Now()
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	access, refresh, err := middleware.GenerateTokenPair(&user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

// Logout blacklists the refresh token.
func Logout(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.RefreshRequest)

	if err := middleware.RevokeRefreshToken(database.Database.Db, reqData.Refresh); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusResetContent, true, "Logged out successfully.", nil)
}

// Refresh exchanges a live refresh token for a new access token.
func Refresh(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.RefreshRequest)

	db := database.Database.Db

	userID, err := middleware.VerifyRefreshToken(db, reqData.Refresh)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token!", nil)
	}

	access, err := middleware.GenerateAccessToken(&user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed.", fiber.Map{
		"access": access,
	})
}

// ForgotPassword issues a 15-minute reset token, embeds it in the
// client-supplied URL and emails the link.
func ForgotPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.ForgotPasswordRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		// Reveals whether the email is registered. Kept as-is pending a
		// product decision on enumeration-safe messaging.
		return middleware.ValidationErrorResponse(c, map[string]string{
			"email": "User with this email does not exist",
		})
	}

	token, err := middleware.GenerateResetToken(&user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	resetLink := fmt.Sprintf("%s?token=%s", reqData.ResetURL, token)
	utils.SendPasswordResetEmail(user.Email, resetLink)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset email sent successfully", nil)
}

// ResetPassword verifies the scoped token and sets the new password.
func ResetPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.ResetPasswordRequest)

	db := database.Database.Db

	userID, err := middleware.VerifyResetToken(reqData.Token)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"token": "Invalid or expired reset token",
		})
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"token": "Invalid or expired reset token",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully", nil)
}

// RequestLoginOTP generates and emails a login code. The identity must
// already exist.
func RequestLoginOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.RequestOTPRequest)

	db := database.Database.Db

	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&models.User{}).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"email": "User with this email is not registered",
		})
	}

	code, err := models.GenerateOTP(db, reqData.Email)
	if err != nil {
		log.Printf("Error generating OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP!", nil)
	}

	utils.SendOTPEmail(reqData.Email, code)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully", nil)
}

// ValidateLoginOTP burns the code; if the identity exists it issues a
// token pair, otherwise it returns a plain success.
func ValidateLoginOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.ValidateOTPRequest)

	db := database.Database.Db

	if !models.ConsumeOTP(db, reqData.Email, reqData.OTP) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"otp": "Invalid or expired OTP",
		})
	}

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP validated successfully", nil)
	}

	access, refresh, err := middleware.GenerateTokenPair(&user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully.", fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

// RequestRegisterOTP generates and emails a registration code.
func RequestRegisterOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.RequestOTPRequest)

	code, err := models.GenerateOTP(database.Database.Db, reqData.Email)
	if err != nil {
		log.Printf("Error generating OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP!", nil)
	}

	utils.SendOTPEmail(reqData.Email, code)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully", nil)
}

// ValidateRegisterOTP creates the identity once the code checks out.
// The existence check runs before the code is consumed so a doomed
// request does not burn a valid OTP.
func ValidateRegisterOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.OTPRegisterRequest)

	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"email": "Already registered, please login",
		})
	}

	if !models.ConsumeOTP(db, reqData.Email, reqData.OTP) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"otp": "Invalid or expired OTP",
		})
	}

	// No password on OTP registration; assign a random one so the
	// credential column is never empty. The user sets a real password
	// through the forgot-password flow.
	password, err := utils.GenerateRandomPassword(12)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:     reqData.Email,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Password:  string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	access, refresh, err := middleware.GenerateTokenPair(&newUser)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User registered successfully.", fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    newUser,
	})
}

// ListUsers returns all identities. Admin only.
func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", users)
}

// CreateUser provisions an account with a random password and emails
// it to the new user. Admin only.
func CreateUser(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*authValidator.CreateUserRequest)

	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"email": "Email is already registered!",
		})
	}

	password, err := utils.GenerateRandomPassword(12)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:     reqData.Email,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Password:  string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, password)

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", newUser)
}
