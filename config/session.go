package config

import (
	"attendance/domain"
	"os"
	"time"
)

// GetStandardSession returns the school-day window stamped on non-absent bulk
// rows. Invalid values fall back to the defaults.
func GetStandardSession() domain.Session {
	return domain.Session{
		TimeIn:  clockFromEnv("SESSION_TIME_IN", domain.DefaultSession.TimeIn),
		TimeOut: clockFromEnv("SESSION_TIME_OUT", domain.DefaultSession.TimeOut),
	}
}

func clockFromEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	t, err := time.Parse("15:04:05", v)
	if err != nil {
		// accept HH:MM too
		t, err = time.Parse("15:04", v)
		if err != nil {
			GetLogrusInstance().Warnf("invalid %s %q, using %s", key, v, def)
			return def
		}
	}
	return t.Format("15:04:05")
}
