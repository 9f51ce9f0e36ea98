package config

import "os"

func IsDebug() bool {
	return os.Getenv("INSURE_DEBUG") == "1"
}
