package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)

	require.Equal(t, "linguafrika", cfg.Auth.JWT.Issuer)
	require.Equal(t, 168*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
	require.Equal(t, 60*time.Minute, cfg.Auth.ResetTokenTTL)

	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 587, cfg.Email.SMTP.Port)

	require.Equal(t, 5, cfg.RateLimit.Login.MaxRequests)
	require.Equal(t, 15*time.Minute, cfg.RateLimit.Login.Window)
	require.Equal(t, 3, cfg.RateLimit.PasswordReset.MaxRequests)
	require.Equal(t, time.Hour, cfg.RateLimit.PasswordReset.Window)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	contents := `
server:
  port: 9100
  log_level: debug
auth:
  jwt:
    secret: file-secret
    session_token_ttl: 24h
  otp_ttl: 5m
ratelimit:
  login:
    max_requests: 2
    window: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	require.Equal(t, 2, cfg.RateLimit.Login.MaxRequests)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Login.Window)

	// Unset keys keep their defaults.
	require.Equal(t, "linguafrika", cfg.Auth.JWT.Issuer)
	require.Equal(t, 60*time.Minute, cfg.Auth.ResetTokenTTL)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LINGUAFRIKA_SERVER_PORT", "9200")
	t.Setenv("LINGUAFRIKA_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9200, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}

func TestJWTServiceConfigFallsBackToDefaultTTL(t *testing.T) {
	var authCfg AuthConfig
	authCfg.JWT.Secret = "secret"

	jwtCfg := authCfg.JWTServiceConfig()
	require.Equal(t, 7*24*time.Hour, jwtCfg.SessionTokenTTL)
}

func TestAuthServiceOptionsSkipZeroDurations(t *testing.T) {
	var authCfg AuthConfig
	require.Empty(t, authCfg.AuthServiceOptions())

	authCfg.OTPTTL = 5 * time.Minute
	authCfg.ResetTokenTTL = 30 * time.Minute
	require.Len(t, authCfg.AuthServiceOptions(), 2)
}
