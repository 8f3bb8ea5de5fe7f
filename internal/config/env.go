package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the trimmed value of key, or def when it is unset or blank.
func GetEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func IntFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func IsProduction() bool {
	return strings.EqualFold(GetEnv("GO_ENV", ""), "production")
}

// SplitAndTrim splits a comma separated env value, dropping blanks.
func SplitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
