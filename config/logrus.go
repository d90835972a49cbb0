package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logrusInstance *logrus.Logger

func GetLogrusInstance() *logrus.Logger {
	if logrusInstance == nil {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
		logrusInstance.SetLevel(getLogLevel())
	}
	return logrusInstance
}

func getLogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

const (
	green  = "\033[32m" // 2xx
	yellow = "\033[33m" // 202 and 3xx
	red    = "\033[31m" // 4xx and 5xx
	reset  = "\033[0m"
)

func statusColor(statusCode int) string {
	switch {
	case statusCode == fiber.StatusAccepted:
		return yellow
	case statusCode >= 200 && statusCode < 300:
		return green
	case statusCode >= 300 && statusCode < 400:
		return yellow
	case statusCode >= 400:
		return red
	default:
		return reset
	}
}

func PrintLogInfo(username *string, statusCode int, functionName string) {
	user := "Unknown"
	if username != nil {
		user = *username
	}

	logMsg := fmt.Sprintf("User: %s, (%s) => Status: %s[%d] - %s%s", user, functionName, statusColor(statusCode), statusCode, http.StatusText(statusCode), reset)
	GetLogrusInstance().WithField("status", statusCode).Info(logMsg)
}
