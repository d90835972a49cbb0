package config

import (
	"github.com/joho/godotenv"
)

// LoadEnv reads .env (or the given files) into the process environment.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}
