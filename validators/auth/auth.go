package authValidator

import (
	"github.com/gofiber/fiber/v2"

	"svault/middleware"
	"svault/validators"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	ResetURL string `json:"reset_url" validate:"required,url"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ValidateOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type OTPRegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	OTP       string `json:"otp" validate:"required,len=6,numeric"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// body parses the request body into dst, validates it and stashes it in
// Locals for the controller. Shared shape of every auth validator.
func body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if fieldErrors := validators.CheckStruct(reqData); len(fieldErrors) > 0 {
			return middleware.ValidationErrorResponse(c, fieldErrors)
		}
		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}

func Register() fiber.Handler       { return body[RegisterRequest]() }
func Login() fiber.Handler          { return body[LoginRequest]() }
func Logout() fiber.Handler         { return body[RefreshRequest]() }
func Refresh() fiber.Handler        { return body[RefreshRequest]() }
func ForgotPassword() fiber.Handler { return body[ForgotPasswordRequest]() }
func ResetPassword() fiber.Handler  { return body[ResetPasswordRequest]() }
func RequestOTP() fiber.Handler     { return body[RequestOTPRequest]() }
func ValidateOTP() fiber.Handler    { return body[ValidateOTPRequest]() }
func OTPRegister() fiber.Handler    { return body[OTPRegisterRequest]() }
func CreateUser() fiber.Handler     { return body[CreateUserRequest]() }
