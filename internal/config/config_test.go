package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_HOST", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "jwt", cfg.JWTCookie)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 64, cfg.BroadcastQueue)
	assert.Equal(t, 16, cfg.WSSendBuffer)
	assert.Equal(t, 30*time.Second, cfg.WSPingPeriod)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret is required")
	assert.Contains(t, err.Error(), "database_url is required")
}

func TestLoadPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ELECTION_HTTP_ADDR", ":6000")
	t.Setenv("ELECTION_DB_DRIVER", "SQLite")
	t.Setenv("ELECTION_DATABASE_URL", "election.db")
	t.Setenv("ELECTION_JWT_SECRET", "secret")
	t.Setenv("ELECTION_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ELECTION_BROADCAST_QUEUE", "8")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--http-addr=:7000", "--request-timeout=2s"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "election.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 8, cfg.BroadcastQueue)
}

func TestLoadPostgresFromComposeEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ELECTION_DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("POSTGRES_USER", "poll")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "election")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://poll:pw@db:5432/election?sslmode=disable", cfg.DatabaseURL)
	assert.NoError(t, cfg.ValidateStore())
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBDriver: DriverSQLite, DatabaseURL: "x.db", DBConnectRetries: 1,
		JWTSecret: "s", JWTCookie: "jwt",
		RequestTimeout: time.Second, TallyTimeout: time.Second,
		BroadcastQueue: 1, WSSendBuffer: 1,
		WSPingPeriod: time.Second, WSPongWait: 2 * time.Second, WSWriteWait: time.Second,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.DBDriver = "mysql"
	bad.WSPingPeriod = 3 * time.Second
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown db_driver "mysql"`)
	assert.Contains(t, err.Error(), "ws_ping_period must be shorter")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "electiond", entry["service"])

	_, err = NewLogger(&buf, "loud", "json")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
