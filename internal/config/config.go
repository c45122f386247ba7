package config

import (
	"os"
)

type Config struct {
	Port             string
	DBDSN            string
	JWTSecret        string
	JWTRefreshSecret string
	BaseURL          string
	ClientURL        string
	UploadDir        string
	LogLevel         string
	LogFormat        string
}

func Load() Config {
	return Config{
		Port:             getenv("PORT", "5000"),
		DBDSN:            os.Getenv("DB_DSN"),
		JWTSecret:        getenv("JWT_SECRET", "dev_access_secret_change_me"),
		JWTRefreshSecret: getenv("JWT_REFRESH_SECRET", "dev_refresh_secret_change_me"),
		BaseURL:          getenv("BASE_URL", "http://localhost:5000"),
		ClientURL:        getenv("CLIENT_URL", "http://localhost:5173"),
		UploadDir:        getenv("UPLOAD_DIR", "./uploads"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "console"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
