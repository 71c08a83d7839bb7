package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the endpoints the client talks to. Each URL is configured on
// its own, the way a browser bundle receives them at build time.
type Config struct {
	LoginURL  string        `env:"LOGIN_URL" envDefault:"http://localhost:8080/api/login"`
	LogoutURL string        `env:"LOGOUT_URL" envDefault:"http://localhost:8080/api/logout"`
	VerifyURL string        `env:"VERIFY_URL" envDefault:"http://localhost:8080/api/verify-token"`
	UsersURL  string        `env:"USERS_URL" envDefault:"http://localhost:8080/api/users"`
	WatchURL  string        `env:"WATCH_URL" envDefault:"ws://localhost:8080/api/ws"`
	Origin    string        `env:"ORIGIN" envDefault:"http://localhost:5173"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads the USERSCTL_-prefixed environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "USERSCTL_"}); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	return cfg, nil
}

// ConfigForBaseURL derives every endpoint from one server base URL.
func ConfigForBaseURL(base, origin string) (*Config, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", base)
	}

	wsScheme := "ws"
	if u.Scheme == "https" {
		wsScheme = "wss"
	}
	root := u.String()

	return &Config{
		LoginURL:  root + "/api/login",
		LogoutURL: root + "/api/logout",
		VerifyURL: root + "/api/verify-token",
		UsersURL:  root + "/api/users",
		WatchURL:  wsScheme + "://" + u.Host + u.Path + "/api/ws",
		Origin:    origin,
		Timeout:   10 * time.Second,
	}, nil
}
