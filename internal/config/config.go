package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Nickname  string
	DBPath    string
	Initiator bool
	SentryDSN string
	Debug     bool
}

func Load() (*Config, error) {
	nick := os.Getenv("POLL_NICKNAME")
	if nick == "" {
		return nil, fmt.Errorf("POLL_NICKNAME is required")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}

	initiator := false
	if v := os.Getenv("SESSION_INITIATOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_INITIATOR must be a boolean: %w", err)
		}
		initiator = b
	}

	debug := false
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DEBUG must be a boolean: %w", err)
		}
		debug = b
	}

	return &Config{
		Nickname:  nick,
		DBPath:    dbPath,
		Initiator: initiator,
		SentryDSN: os.Getenv("SENTRY_DSN"),
		Debug:     debug,
	}, nil
}
