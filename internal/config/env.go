package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one present is loaded.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads variables from the first .env style file found in the working directory.
// Variables already present in the process environment are not overwritten.
// It returns the file that was loaded, or "" when none exists.
func loadEnvFile() (string, error) {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(name); err != nil {
			return "", fmt.Errorf("load %s: %w", name, err)
		}
		return name, nil
	}
	return "", nil
}
