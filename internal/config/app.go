package config

import "os"

func Addr() string {
	if port, ok := os.LookupEnv("APP_PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}
