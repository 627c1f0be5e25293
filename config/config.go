package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_DRIVER  string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string
	GIN_MODE    string

	// LANGUAGE_CODE is the language used when a request names none.
	LANGUAGE_CODE string
	// LANGUAGES lists the languages Accept-Language is matched against.
	LANGUAGES []string

	LOG_LEVEL  string
	LOG_FORMAT string

	// ADMIN_EMAIL and ADMIN_PASSWORD seed the first admin account.
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_DRIVER = getEnv("DB_DRIVER", "postgres")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	GIN_MODE = getEnv("GIN_MODE", "debug")

	LANGUAGE_CODE = getEnv("LANGUAGE_CODE", "en")
	LANGUAGES = splitList(getEnv("LANGUAGES", LANGUAGE_CODE))

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "console")

	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "")
	ADMIN_PASSWORD = getEnv("ADMIN_PASSWORD", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
