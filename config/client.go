package config

import (
	"os"
	"strings"
	"time"
)

func GetAPIBaseURL() string {
	v := os.Getenv("API_BASE_URL")
	if v == "" {
		return "http://" + "127.0.0.1:" + GetFiberHttpPort()
	}
	return strings.TrimRight(v, "/")
}

func GetAPIToken() string {
	return os.Getenv("API_TOKEN")
}

func GetAPITimeout() time.Duration {
	return durationFromEnv("API_TIMEOUT", 15*time.Second)
}

func GetJWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}
