package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	appNameVar           = "APP_NAME"
	apiBaseURLVar        = "STUDY_API_URL"
	sessionFileVar       = "STUDY_SESSION_FILE"
	sessionPassphraseVar = "STUDY_SESSION_PASSPHRASE"
	logLevelVar          = "LOG_LEVEL"
)

// loadDotEnv pulls a .env file into the environment when one exists; real
// environment variables win over file values.
func loadDotEnv() {
	_ = godotenv.Load()
}

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Study Companion")
}

// GetAPIBaseURL returns the backend base URL (e.g. "http://localhost:8000").
// API paths ("/api/...") are joined onto it by the request client.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8000")
}

func (EnvVars) GetSessionFile() string {
	if path := os.Getenv(sessionFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyctl/session.json"
	}
	return filepath.Join(home, ".studyctl", "session.json")
}

// GetSessionPassphrase returns the passphrase for session-file encryption,
// empty when the session file is stored in the clear.
func (EnvVars) GetSessionPassphrase() string {
	return GetEnv(sessionPassphraseVar, "")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
