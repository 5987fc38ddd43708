package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authControllers "svault/controllers/auth"
	"svault/middleware"
	authValidators "svault/validators/auth"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/logout", authValidators.Logout(), middleware.JWTMiddleware, authControllers.Logout)
	authGroup.Post("/refresh", authValidators.Refresh(), authControllers.Refresh)
	authGroup.Post("/forgot-password", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/reset-password", authValidators.ResetPassword(), authControllers.ResetPassword)

	authGroup.Post("/request/login/otp", authValidators.RequestOTP(), authControllers.RequestLoginOTP)
	authGroup.Post("/login/otp", authValidators.ValidateOTP(), authControllers.ValidateLoginOTP)
	authGroup.Post("/request/register/otp", authValidators.RequestOTP(), authControllers.RequestRegisterOTP)
	authGroup.Post("/register/otp", authValidators.OTPRegister(), authControllers.ValidateRegisterOTP)

	authGroup.Get("/users", middleware.JWTMiddleware, middleware.AdminMiddleware, authControllers.ListUsers)
	authGroup.Post("/users", authValidators.CreateUser(), middleware.JWTMiddleware, middleware.AdminMiddleware, authControllers.CreateUser)
}
