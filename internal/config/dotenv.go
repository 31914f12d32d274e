package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadDotenv populates the environment from a .env file without overriding
// variables that are already set. ENV_FILE selects another file; NO_DOTENV=1
// disables loading.
func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	path := ".env"
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		path = envFile
	}

	// Missing file is fine
	_ = godotenv.Load(path)
}
