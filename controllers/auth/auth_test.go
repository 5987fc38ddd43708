package authController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"svault/config"
	"svault/database"
	"svault/middleware"
	"svault/models"
	authValidators "svault/validators/auth"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()
	// Fail outgoing mail fast; delivery is fire-and-forget and ignored here.
	config.AppConfig.SMTPHost = "127.0.0.1"
	config.AppConfig.SMTPPort = "1"

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.OTP{}, &models.RevokedToken{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authValidators.Register(), Register)
	authGroup.Post("/login", authValidators.Login(), Login)
	authGroup.Post("/logout", authValidators.Logout(), middleware.JWTMiddleware, Logout)
	authGroup.Post("/refresh", authValidators.Refresh(), Refresh)
	authGroup.Post("/forgot-password", authValidators.ForgotPassword(), ForgotPassword)
	authGroup.Post("/reset-password", authValidators.ResetPassword(), ResetPassword)
	authGroup.Post("/request/login/otp", authValidators.RequestOTP(), RequestLoginOTP)
	authGroup.Post("/login/otp", authValidators.ValidateOTP(), ValidateLoginOTP)
	authGroup.Post("/request/register/otp", authValidators.RequestOTP(), RequestRegisterOTP)
	authGroup.Post("/register/otp", authValidators.OTPRegister(), ValidateRegisterOTP)
	authGroup.Get("/users", middleware.JWTMiddleware, middleware.AdminMiddleware, ListUsers)
	authGroup.Post("/users", authValidators.CreateUser(), middleware.JWTMiddleware, middleware.AdminMiddleware, CreateUser)

	return app, db
}

type envelope struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func createUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRegister(t *testing.T) {
	app, _ := setupApp(t)

	resp, env := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"email": "a@x.com", "password": "hunter2hunter2", "first_name": "Ada", "last_name": "L",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, env.Status)

	// Duplicate email
	resp, _ = doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"email": "a@x.com", "password": "hunter2hunter2",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterShortPassword(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"email": "a@x.com", "password": "short",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Rejected before any mutation.
	var count int64
	db.Model(&models.User{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestLogin(t *testing.T) {
	app, db := setupApp(t)
	createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	resp, env := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "hunter2hunter2",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, env.Data["access"])
	require.NotEmpty(t, env.Data["refresh"])
	require.NotNil(t, env.Data["user"])

	resp, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "wrongpassword",
	}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "nobody@x.com", "password": "hunter2hunter2",
	}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutAndRefresh(t *testing.T) {
	app, db := setupApp(t)
	createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	_, env := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "hunter2hunter2",
	}, "")
	access := env.Data["access"].(string)
	refresh := env.Data["refresh"].(string)

	// Refresh works before logout.
	resp, env2 := doJSON(t, app, "POST", "/auth/refresh", fiber.Map{"refresh": refresh}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, env2.Data["access"])

	resp, _ = doJSON(t, app, "POST", "/auth/logout", fiber.Map{"refresh": refresh}, access)
	require.Equal(t, fiber.StatusResetContent, resp.StatusCode)

	// Blacklisted: neither re-issuance nor a second logout succeeds.
	resp, _ = doJSON(t, app, "POST", "/auth/refresh", fiber.Map{"refresh": refresh}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", "/auth/logout", fiber.Map{"refresh": refresh}, access)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	resp, _ := doJSON(t, app, "POST", "/auth/forgot-password", fiber.Map{
		"email": "nobody@x.com", "reset_url": "https://app.example.com/reset",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/forgot-password", fiber.Map{
		"email": "a@x.com", "reset_url": "https://app.example.com/reset",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	token, err := middleware.GenerateResetToken(user)
	require.NoError(t, err)

	// New password below 8 characters is rejected before any mutation.
	resp, _ = doJSON(t, app, "POST", "/auth/reset-password", fiber.Map{
		"token": token, "new_password": "short",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/reset-password", fiber.Map{
		"token": token, "new_password": "newpassword123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "newpassword123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/reset-password", fiber.Map{
		"token": "garbage", "new_password": "newpassword123",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func otpCodeFor(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	var record models.OTP
	require.NoError(t, db.Where("email = ? AND is_used = ?", email, false).First(&record).Error)
	return record.Code
}

func TestLoginOTPFlow(t *testing.T) {
	app, db := setupApp(t)
	createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	// Unknown email cannot request a login OTP.
	resp, _ := doJSON(t, app, "POST", "/auth/request/login/otp", fiber.Map{"email": "nobody@x.com"}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/request/login/otp", fiber.Map{"email": "a@x.com"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	code := otpCodeFor(t, db, "a@x.com")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	resp, _ = doJSON(t, app, "POST", "/auth/login/otp", fiber.Map{"email": "a@x.com", "otp": wrong}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env := doJSON(t, app, "POST", "/auth/login/otp", fiber.Map{"email": "a@x.com", "otp": code}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, env.Data["access"])
	require.NotEmpty(t, env.Data["refresh"])

	// The code is burnt.
	resp, _ = doJSON(t, app, "POST", "/auth/login/otp", fiber.Map{"email": "a@x.com", "otp": code}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterOTPFlow(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := doJSON(t, app, "POST", "/auth/request/register/otp", fiber.Map{"email": "new@x.com"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	code := otpCodeFor(t, db, "new@x.com")

	resp, env := doJSON(t, app, "POST", "/auth/register/otp", fiber.Map{
		"email": "new@x.com", "otp": code, "first_name": "New", "last_name": "User",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, env.Data["access"])
	require.NotEmpty(t, env.Data["refresh"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@x.com").First(&user).Error)
	require.Equal(t, "New", user.FirstName)
	require.NotEmpty(t, user.Password)
}

func TestRegisterOTPExistingUserDoesNotBurnCode(t *testing.T) {
	app, db := setupApp(t)
	createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	resp, _ := doJSON(t, app, "POST", "/auth/request/register/otp", fiber.Map{"email": "a@x.com"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	code := otpCodeFor(t, db, "a@x.com")

	resp, _ = doJSON(t, app, "POST", "/auth/register/otp", fiber.Map{
		"email": "a@x.com", "otp": code, "first_name": "Dup",
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// The existence check ran first; the valid code is still unused.
	var record models.OTP
	require.NoError(t, db.Where("email = ? AND code = ?", "a@x.com", code).First(&record).Error)
	require.False(t, record.IsUsed)
}

func TestValidateLoginOTPUnknownIdentity(t *testing.T) {
	app, db := setupApp(t)

	// A code can exist without an identity (register flow); validating
	// it through the login endpoint returns a plain success, no tokens.
	resp, _ := doJSON(t, app, "POST", "/auth/request/register/otp", fiber.Map{"email": "ghost@x.com"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	code := otpCodeFor(t, db, "ghost@x.com")

	resp, env := doJSON(t, app, "POST", "/auth/login/otp", fiber.Map{"email": "ghost@x.com", "otp": code}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Nil(t, env.Data["access"])
}

func TestAdminUsers(t *testing.T) {
	app, db := setupApp(t)
	admin := createUser(t, db, "admin@x.com", "hunter2hunter2", "ADMIN")
	user := createUser(t, db, "a@x.com", "hunter2hunter2", "USER")

	adminToken, err := middleware.GenerateAccessToken(admin)
	require.NoError(t, err)
	userToken, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)

	resp, _ := doJSON(t, app, "GET", "/auth/users", nil, userToken)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/auth/users", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/auth/users", fiber.Map{
		"email": "b@x.com", "first_name": "B",
	}, adminToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Admin-created accounts get a random bcrypt-hashed password.
	var created models.User
	require.NoError(t, db.Where("email = ?", "b@x.com").First(&created).Error)
	require.NotEmpty(t, created.Password)
}
