package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// GetRuntimePath is usable before any config struct is parsed.
func GetRuntimePath() string {
	return ResolveRuntimePath(os.Getenv("INSURE_RUNTIME_PATH"))
}

// ResolveRuntimePath places relative paths under the user's home directory.
func ResolveRuntimePath(path string) string {
	if path == "" {
		path = ".insurebot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

// LoadDotEnv loads .env from the working directory, then from the runtime path.
// Variables already present in the environment win; missing files are skipped.
func LoadDotEnv() error {
	for _, p := range []string{".env", filepath.Join(GetRuntimePath(), ".env")} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
