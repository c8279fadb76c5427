package middleware

import (
	"fmt"
	"strings"

	"custmaker/pkg/apperr"
	"custmaker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the role claim required on admin routes.
const AdminRole = "admin"

// AdminClaims are the claims carried by an admin token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth guards destructive routes with an HS256 bearer token whose role
// claim is "admin". With an empty secret the guard is open only when
// allowUnauthenticated is set (development); otherwise every request is rejected.
func AdminAuth(secret string, allowUnauthenticated bool) fiber.Handler {
	if secret == "" {
		if allowUnauthenticated {
			logger.Warn("ADMIN_JWT_SECRET not set, admin routes are unauthenticated")
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		logger.Warn("ADMIN_JWT_SECRET not set, admin routes are disabled")
		return func(c *fiber.Ctx) error {
			return apperr.Unauthorized("admin routes are disabled")
		}
	}

	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return apperr.Unauthorized("missing authorization")
		}

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unsupported signing method: %v", token.Header["alg"])
			}
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.WithError(err).Warn("JWT validation failed")
			return apperr.InvalidToken("invalid token")
		}

		if claims.Role != AdminRole {
			return apperr.InvalidToken("admin role required")
		}

		c.Locals("subject", claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SignAdminToken issues an admin token. Used by the CLI and tests.
func SignAdminToken(secret, subject string) (string, error) {
	claims := AdminClaims{
		Role:             AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
