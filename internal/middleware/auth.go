package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/matching"
)

// LocalUserID is the fiber.Ctx locals key holding the authenticated subject.
const LocalUserID = "userId"

type AuthConfig struct {
	Secret string
	Issuer string
	// AllowAnonymous lets requests through unauthenticated when no secret is set.
	AllowAnonymous bool
}

// NewAuth validates HS256 Bearer tokens and stores the subject under LocalUserID.
func NewAuth(cfg AuthConfig, logger *zap.Logger) fiber.Handler {
	if cfg.Secret == "" && cfg.AllowAnonymous {
		logger.Warn("JWT_SECRET is empty, match endpoints are unauthenticated")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	secret := []byte(cfg.Secret)
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenStr == "" {
			return unauthorized(c, "missing bearer token")
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			logger.Debug("rejected token", zap.Error(err))
			return unauthorized(c, "invalid or expired token")
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			return unauthorized(c, "invalid token issuer")
		}

		c.Locals(LocalUserID, claims.Subject)
		return c.Next()
	}
}

// UserID returns the authenticated subject, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if scheme, token, ok := strings.Cut(header, " "); ok {
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return header
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  matching.CodeUnauthenticated,
	})
}
