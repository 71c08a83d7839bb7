package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    int    `env:"LOG_LEVEL" envDefault:"0"`

	// Storage selects the credential store backend: "mysql" or "memory".
	Storage  string   `env:"STORAGE" envDefault:"mysql"`
	Database Database `envPrefix:"DATABASE_"`

	JWT    JWT    `envPrefix:"JWT_"`
	Cookie Cookie `envPrefix:"COOKIE_"`
	CORS   CORS   `envPrefix:"CORS_"`
}

// Database contains MySQL connection parameters.
type Database struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"3306"`
	User         string `env:"USER" envDefault:"root"`
	Password     string `env:"PASSWORD"`
	Name         string `env:"NAME" envDefault:"users_db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"1h"`
}

// Cookie contains attributes of the session cookie.
// Secure and SameSite fall back to environment-dependent defaults when unset.
type Cookie struct {
	Secure   *bool  `env:"SECURE"`
	SameSite string `env:"SAME_SITE"`
	Domain   string `env:"DOMAIN"`
}

// CORS contains the origins allowed to call the API with credentials.
type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.Storage != StorageMySQL && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("unsupported STORAGE %q", cfg.Storage)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CookieSecure resolves the Secure attribute of the session cookie.
func (c *Config) CookieSecure() bool {
	if c.Cookie.Secure != nil {
		return *c.Cookie.Secure
	}
	return !c.IsDevelopment()
}

// CookieSameSite resolves the SameSite attribute name of the session cookie.
// Production defaults to "none" so a frontend served from another origin
// still receives the cookie.
func (c *Config) CookieSameSite() string {
	if c.Cookie.SameSite != "" {
		return c.Cookie.SameSite
	}
	if c.IsDevelopment() {
		return "lax"
	}
	return "none"
}

// DSN builds the go-sql-driver DSN for the configured database.
func (d Database) DSN() string {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	c.DBName = d.Name
	c.ParseTime = true
	return c.FormatDSN()
}
