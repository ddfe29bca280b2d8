// Package config defines the runtime configuration for termchat and
// provides helpers for parsing tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	ncerr "termchat/internal/errors"
	"termchat/util"
)

// Config holds every tuneable for a single termchat process.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	BindAddress   string        // address used by the listen key
	DialTimeout   time.Duration // per-attempt connect timeout
	Resolve       bool          // accept hostnames as dial targets
	RetryAttempts int           // connect attempts per dial (1 = no retry)
	RetryDelay    time.Duration // delay before the first retry

	// ── Interface ────────────────────────────────────────────────────
	PollInterval time.Duration
	TickDelay    time.Duration
	NoColor      bool

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt before the UI starts
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	LogFile string
	DryRun  bool // print the resolved setup instead of starting the UI
}

// Default returns a Config populated with the compiled-in defaults.
func Default() *Config {
	return &Config{
		BindAddress:   DefaultBindAddress,
		DialTimeout:   DefaultDialTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
		PollInterval:  DefaultPollInterval,
		TickDelay:     DefaultTickDelay,
	}
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec (if set) into the Tunnel* fields.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: err.Error(),
			Hint:    "use user@host or user@host:port",
		}
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if _, err := util.ParseBindAddr(c.BindAddress); err != nil {
		return &ncerr.ConfigError{
			Field:   "bind",
			Value:   c.BindAddress,
			Message: "not an ip:port listen address",
			Hint:    "use e.g. " + DefaultBindAddress + " or 127.0.0.1:0 for an ephemeral port",
		}
	}
	if c.DialTimeout <= 0 {
		return &ncerr.ConfigError{
			Field:   "timeout",
			Value:   c.DialTimeout,
			Message: "must be positive",
			Hint:    fmt.Sprintf("the default is %ds", int(DefaultDialTimeout/time.Second)),
		}
	}
	if c.RetryAttempts < 1 {
		return &ncerr.ConfigError{
			Field:   "retry",
			Value:   c.RetryAttempts,
			Message: "must be at least 1",
			Hint:    "1 disables automatic retries",
		}
	}
	if c.RetryAttempts > 1 && c.RetryDelay <= 0 {
		return &ncerr.ConfigError{
			Field:   "retry-delay",
			Value:   c.RetryDelay,
			Message: "must be positive when --retry is above 1",
		}
	}
	if c.PollInterval <= 0 {
		return &ncerr.ConfigError{Field: "poll-interval", Value: c.PollInterval, Message: "must be positive"}
	}
	if c.TickDelay < 0 {
		return &ncerr.ConfigError{Field: "tick", Value: c.TickDelay, Message: "must not be negative"}
	}

	if c.TunnelEnabled && c.TunnelHost == "" {
		return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required"}
	}
	if !c.TunnelEnabled && (c.SSHKeyPath != "" || c.SSHPassword || c.UseSSHAgent) {
		return &ncerr.ConfigError{
			Field:   "ssh-key",
			Message: "SSH options have no effect without a tunnel",
			Hint:    "add -T user@jumphost",
		}
	}
	return nil
}
