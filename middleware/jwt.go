package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"svault/config"
	"svault/models"
)

// ErrInvalidToken covers bad signatures, expiry, wrong token type and
// blacklisted refresh tokens alike; callers surface it as a 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// GenerateTokenPair mints an access/refresh pair for the user. The
// refresh token carries a jti so it can be blacklisted individually.
func GenerateTokenPair(user *models.User) (string, string, error) {
	access, err := generateToken(user, "access", nil,
		time.Duration(config.AppConfig.AccessTokenMinutes)*time.Minute)
	if err != nil {
		return "", "", err
	}

	jti := uuid.NewString()
	refresh, err := generateToken(user, "refresh", &jti,
		time.Duration(config.AppConfig.RefreshTokenHours)*time.Hour)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// GenerateAccessToken mints a standalone access token, used when a
// refresh token is exchanged.
func GenerateAccessToken(user *models.User) (string, error) {
	return generateToken(user, "access", nil,
		time.Duration(config.AppConfig.AccessTokenMinutes)*time.Minute)
}

// GenerateResetToken mints a purpose-scoped token for password reset
// links, valid for the configured window (15 minutes by default).
func GenerateResetToken(user *models.User) (string, error) {
	return generateToken(user, "password_reset", nil,
		time.Duration(config.AppConfig.ResetTokenMinutes)*time.Minute)
}

func generateToken(user *models.User, tokenType string, jti *string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
		"type":   tokenType,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}
	if jti != nil {
		claims["jti"] = *jti
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// parseToken validates the signature and expiry and returns the claims.
func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyResetToken checks a password-reset token and returns the user ID.
func VerifyResetToken(tokenString string) (uint, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return 0, err
	}
	if claims["type"] != "password_reset" {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["userId"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}

// VerifyRefreshToken checks a refresh token against the signature,
// expiry and the blacklist, returning the owning user ID.
func VerifyRefreshToken(db *gorm.DB, tokenString string) (uint, error) {
	claims, err := refreshClaims(db, tokenString)
	if err != nil {
		return 0, err
	}
	userID := claims["userId"].(float64)
	return uint(userID), nil
}

// RevokeRefreshToken blacklists a refresh token by jti. Revoking a
// token that is invalid, expired or already blacklisted fails.
func RevokeRefreshToken(db *gorm.DB, tokenString string) error {
	claims, err := refreshClaims(db, tokenString)
	if err != nil {
		return err
	}

	exp := claims["exp"].(float64)
	userID := claims["userId"].(float64)
	revoked := models.RevokedToken{
		JTI:       claims["jti"].(string),
		UserID:    uint(userID),
		ExpiresAt: time.Unix(int64(exp), 0),
	}
	if err := db.Create(&revoked).Error; err != nil {
		// Duplicate jti insert means a concurrent revoke won; either way
		// the token is dead.
		if models.IsTokenRevoked(db, revoked.JTI) {
			return nil
		}
		return err
	}
	return nil
}

func refreshClaims(db *gorm.DB, tokenString string) (jwt.MapClaims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims["type"] != "refresh" {
		return nil, ErrInvalidToken
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, ErrInvalidToken
	}
	if _, ok := claims["userId"].(float64); !ok {
		return nil, ErrInvalidToken
	}
	if _, ok := claims["exp"].(float64); !ok {
		return nil, ErrInvalidToken
	}
	if models.IsTokenRevoked(db, jti) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTMiddleware is a middleware to check for a valid access token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}

	tokenString := authHeader[len("Bearer "):]

	claims, err := parseToken(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	// Refresh and reset tokens must not authorize API calls.
	if claims["type"] != "access" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	userID := claims["userId"].(float64)
	c.Locals("userId", uint(userID))
	if role, ok := claims["role"].(string); ok {
		c.Locals("role", role)
	}

	return c.Next()
}

// AdminMiddleware restricts a route to ADMIN tokens. Must run after JWTMiddleware.
func AdminMiddleware(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "ADMIN" {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}
	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
