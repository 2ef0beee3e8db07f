package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/security"
)

// AuthRequired resolves the bearer token to a user, provisioning the account
// on first sight. Repeated bad tokens from one address are throttled.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.clock.Now()
	if handler.tokenLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many failed authentication attempts")
	}

	rawToken, ok := bearerToken(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	claims, err := security.ParseToken(handler.signingKey, rawToken, now)
	if err != nil {
		handler.tokenLimiter.recordFailure(limiterKey, now)
		message := "unauthorized"
		if errors.Is(err, security.ErrTokenExpired) {
			message = "token expired"
		}
		handler.logger.Warn("rejected bearer token", "request_id", c.Locals(requestIDKey), "ip", limiterKey, "error", err)
		return apiError(c, fiber.StatusUnauthorized, message)
	}
	handler.tokenLimiter.reset(limiterKey)

	user, err := handler.users.Resolve(c.UserContext(), claims.Email, claims.Name)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if user.IsBanned {
		return apiError(c, fiber.StatusForbidden, "account is banned")
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
