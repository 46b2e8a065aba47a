// Package config reads client settings from the environment, after loading
// a .env file if one is present.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerURL      = "http://localhost:3000"
	DefaultRequestTimeout = 10 * time.Second
	DefaultTypingTimeout  = 3 * time.Second
	DefaultLogLevel       = "warn"
)

type Config struct {
	ServerURL      string
	WSURL          string
	RequestTimeout time.Duration
	TypingTimeout  time.Duration
	LogLevel       string
}

// Load reads .env files (missing ones are fine) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		ServerURL:      getenv("CHAT_SERVER_URL", DefaultServerURL),
		WSURL:          os.Getenv("CHAT_WS_URL"),
		RequestTimeout: DefaultRequestTimeout,
		TypingTimeout:  DefaultTypingTimeout,
		LogLevel:       getenv("LOG_LEVEL", DefaultLogLevel),
	}
	var err error
	if cfg.RequestTimeout, err = duration("CHAT_REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.TypingTimeout, err = duration("CHAT_TYPING_TIMEOUT", DefaultTypingTimeout); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Resolve()
}

// Resolve normalizes the server URL and derives the websocket URL from it
// when none is set.
func (c *Config) Resolve() error {
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}
	if c.WSURL != "" {
		return nil
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	c.WSURL = u.String()
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration like 5s", key, v)
	}
	return d, nil
}
