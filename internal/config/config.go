package config

// Config exposes everything the client needs from the environment. The values
// are read once per call; the backend base URL is effectively a process-wide
// constant set at startup.
type Config interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetSessionFile() string
	GetSessionPassphrase() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	loadDotEnv()
	return mainConfig{}
}
