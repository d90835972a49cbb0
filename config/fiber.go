package config

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// defaultBodyLimit leaves room for a whole-school bulk submission.
const defaultBodyLimit = 2 * 1024 * 1024

func GetFiberListenAddress() string {
	return net.JoinHostPort(envOr("HTTP_HOST", "0.0.0.0"), GetFiberHttpPort())
}

// GetFiberConfig is the attendance API server config. Errors that escape a
// handler (unknown routes, oversized bodies) are answered in the same
// success/message envelope the handlers use.
func GetFiberConfig() fiber.Config {
	return fiber.Config{
		AppName:       envOr("APP_NAME", "ATTENDANCE"),
		ServerHeader:  envOr("APP_NAME", "ATTENDANCE"),
		JSONEncoder:   sonic.Marshal,
		JSONDecoder:   sonic.Unmarshal,
		ReadTimeout:   durationFromEnv("HTTP_READ_TIMEOUT", 60*time.Second),
		WriteTimeout:  durationFromEnv("HTTP_WRITE_TIMEOUT", 60*time.Second),
		BodyLimit:     intFromEnv("HTTP_BODY_LIMIT", defaultBodyLimit),
		CaseSensitive: true,
		ErrorHandler:  envelopeErrorHandler,
	}
}

func envelopeErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		GetLogrusInstance().WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}

	PrintLogInfo(nil, code, "ErrorHandler")
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func GetFiberHttpPort() string {
	return envOr("HTTP_PORT", "8000")
}

// GetUseCaseTimeout bounds every use case call. Defaults to 10s.
func GetUseCaseTimeout() time.Duration {
	return durationFromEnv("USECASE_TIMEOUT", 10*time.Second)
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := envOr(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		GetLogrusInstance().Warnf("invalid %s %q, using %s", key, v, def)
		return def
	}
	return d
}

func intFromEnv(key string, def int) int {
	v := envOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		GetLogrusInstance().Warnf("invalid %s %q, using %d", key, v, def)
		return def
	}
	return n
}
