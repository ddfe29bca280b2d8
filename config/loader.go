package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the TERMCHAT_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).  NO_COLOR is honoured
// as well.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  Call it BEFORE registering
// CLI flags so that the flag defaults already carry the env values.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("TERMCHAT_BIND"); v != "" {
		cfg.BindAddress = v
	}
	if v := envInt("TERMCHAT_TIMEOUT"); v > 0 {
		cfg.DialTimeout = secondsDuration(v)
	}
	if envBool("TERMCHAT_RESOLVE") {
		cfg.Resolve = true
	}
	if v := envInt("TERMCHAT_RETRY"); v > 0 {
		cfg.RetryAttempts = v
	}
	if v := envDuration("TERMCHAT_RETRY_DELAY"); v > 0 {
		cfg.RetryDelay = v
	}
	if v := envDuration("TERMCHAT_POLL_INTERVAL"); v > 0 {
		cfg.PollInterval = v
	}
	if envBool("TERMCHAT_NO_COLOR") || os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	// SSH tunnel
	if v := os.Getenv("TERMCHAT_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("TERMCHAT_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("TERMCHAT_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("TERMCHAT_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("TERMCHAT_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("TERMCHAT_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("TERMCHAT_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if v := os.Getenv("TERMCHAT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

// envDuration accepts Go duration syntax ("250ms", "2s").
func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
