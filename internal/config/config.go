// Package config loads runtime settings from the environment, an optional
// .env file and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ELECTION"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr         string
	DBDriver         string
	DatabaseURL      string
	DBConnectRetries int

	JWTSecret string
	JWTCookie string

	CORSOrigins    []string
	RequestTimeout time.Duration

	BroadcastQueue int
	TallyTimeout   time.Duration

	WSPingPeriod time.Duration
	WSPongWait   time.Duration
	WSWriteWait  time.Duration
	WSSendBuffer int

	LogLevel  string
	LogFormat string
}

type option struct {
	key   string
	flag  string
	value any
	usage string
}

var options = []option{
	{"http_addr", "http-addr", ":5000", "address the HTTP server listens on"},
	{"db_driver", "db-driver", DriverPostgres, "ballot store driver (postgres or sqlite)"},
	{"database_url", "database-url", "", "ballot store connection string or sqlite file path"},
	{"db_connect_retries", "db-connect-retries", 5, "attempts to reach the ballot store at startup"},
	{"jwt_secret", "jwt-secret", "", "HMAC secret used to verify voter tokens"},
	{"jwt_cookie", "jwt-cookie", "jwt", "cookie carrying the voter token"},
	{"cors_origins", "cors-origins", "http://localhost:3000", "comma separated list of allowed origins"},
	{"request_timeout", "request-timeout", 5 * time.Second, "deadline applied to every API request"},
	{"broadcast_queue", "broadcast-queue", 64, "pending leaderboard recomputes before notifications are dropped"},
	{"tally_timeout", "tally-timeout", 5 * time.Second, "deadline for each broadcast recompute"},
	{"ws_ping_period", "ws-ping-period", 30 * time.Second, "interval between keepalive pings"},
	{"ws_pong_wait", "ws-pong-wait", 60 * time.Second, "time allowed to read the next pong"},
	{"ws_write_wait", "ws-write-wait", 10 * time.Second, "time allowed to write a message to an observer"},
	{"ws_send_buffer", "ws-send-buffer", 16, "messages buffered per observer before it is disconnected"},
	{"log_level", "log-level", "info", "log level (debug, info, warn, error)"},
	{"log_format", "log-format", "json", "log format (json or console)"},
}

// RegisterFlags defines one flag per setting on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, o := range options {
		switch v := o.value.(type) {
		case string:
			fs.String(o.flag, v, o.usage)
		case int:
			fs.Int(o.flag, v, o.usage)
		case time.Duration:
			fs.Duration(o.flag, v, o.usage)
		}
	}
}

// Load resolves settings with flags taking precedence over ELECTION_*
// environment variables, which take precedence over defaults. A .env file in
// the working directory is loaded first when present. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for _, o := range options {
		v.SetDefault(o.key, o.value)
		if fs == nil {
			continue
		}
		if f := fs.Lookup(o.flag); f != nil {
			if err := v.BindPFlag(o.key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", o.flag, err)
			}
		}
	}

	cfg := Config{
		HTTPAddr:         v.GetString("http_addr"),
		DBDriver:         strings.ToLower(v.GetString("db_driver")),
		DatabaseURL:      v.GetString("database_url"),
		DBConnectRetries: v.GetInt("db_connect_retries"),
		JWTSecret:        v.GetString("jwt_secret"),
		JWTCookie:        v.GetString("jwt_cookie"),
		CORSOrigins:      splitList(v.GetString("cors_origins")),
		RequestTimeout:   v.GetDuration("request_timeout"),
		BroadcastQueue:   v.GetInt("broadcast_queue"),
		TallyTimeout:     v.GetDuration("tally_timeout"),
		WSPingPeriod:     v.GetDuration("ws_ping_period"),
		WSPongWait:       v.GetDuration("ws_pong_wait"),
		WSWriteWait:      v.GetDuration("ws_write_wait"),
		WSSendBuffer:     v.GetInt("ws_send_buffer"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverPostgres {
		cfg.DatabaseURL = postgresURLFromEnv()
	}

	return cfg, nil
}

// postgresURLFromEnv builds a connection string from the POSTGRES_* variables
// used by the compose setup.
func postgresURLFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     host + ":" + port,
		Path:     "/" + os.Getenv("POSTGRES_DB"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateStore checks the settings needed to reach the ballot store.
func (c Config) ValidateStore() error {
	var result *multierror.Error

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown db_driver %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		result = multierror.Append(result, errors.New("database_url is required"))
	}
	if c.DBConnectRetries < 1 {
		result = multierror.Append(result, errors.New("db_connect_retries must be at least 1"))
	}

	return result.ErrorOrNil()
}

// Validate checks everything the API server needs.
func (c Config) Validate() error {
	var result *multierror.Error
	if err := c.ValidateStore(); err != nil {
		result = multierror.Append(result, err)
	}

	if c.JWTSecret == "" {
		result = multierror.Append(result, errors.New("jwt_secret is required"))
	}
	if c.JWTCookie == "" {
		result = multierror.Append(result, errors.New("jwt_cookie must not be empty"))
	}
	if c.BroadcastQueue < 1 {
		result = multierror.Append(result, errors.New("broadcast_queue must be positive"))
	}
	if c.WSSendBuffer < 1 {
		result = multierror.Append(result, errors.New("ws_send_buffer must be positive"))
	}
	for key, d := range map[string]time.Duration{
		"request_timeout": c.RequestTimeout,
		"tally_timeout":   c.TallyTimeout,
		"ws_ping_period":  c.WSPingPeriod,
		"ws_pong_wait":    c.WSPongWait,
		"ws_write_wait":   c.WSWriteWait,
	} {
		if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s must be positive", key))
		}
	}
	if c.WSPingPeriod >= c.WSPongWait {
		result = multierror.Append(result, errors.New("ws_ping_period must be shorter than ws_pong_wait"))
	}

	return result.ErrorOrNil()
}
