package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/sirupsen/logrus"
)

// AdminAuth func - Bearer token guard for the admin API.
// An empty token rejects every request.
func AdminAuth(token string) fiber.Handler {
	if token == "" {
		logrus.Warn("app.admin_token is not set, the admin API rejects every request")
	}
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if token == "" || subtle.ConstantTimeCompare([]byte(key), []byte(token)) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logrus.Warnf("Rejected admin request %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
		},
	})
}
