package core

import (
	"os"

	"termchat/config"
	"termchat/internal/metrics"
	"termchat/internal/retry"
	"termchat/internal/transport"
	"termchat/tunnel"
	"termchat/util"
)

// Build constructs the Mode for cfg.  cfg must already be validated.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if cfg.DryRun {
		return &PlanMode{Config: cfg, Out: os.Stdout}, nil
	}
	return buildChat(cfg, logger), nil
}

func buildChat(cfg *config.Config, logger *util.Logger) *ChatMode {
	return &ChatMode{
		Dialer:       buildDialer(cfg, logger),
		Retry:        buildRetry(cfg),
		DialTimeout:  cfg.DialTimeout,
		BindAddress:  cfg.BindAddress,
		Resolve:      cfg.Resolve,
		PollInterval: cfg.PollInterval,
		TickDelay:    cfg.TickDelay,
		NoColor:      cfg.NoColor,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Logger:       logger,
		Metrics:      metrics.New(),
	}
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(sshConfig(cfg), logger)
	}
	return &transport.TCPDialer{Timeout: cfg.DialTimeout}
}

func sshConfig(cfg *config.Config) *tunnel.SSHConfig {
	return &tunnel.SSHConfig{
		User:          cfg.TunnelUser,
		Host:          cfg.TunnelHost,
		Port:          cfg.TunnelPort,
		KeyPath:       cfg.SSHKeyPath,
		PromptPass:    cfg.SSHPassword,
		UseAgent:      cfg.UseSSHAgent,
		StrictHostKey: cfg.StrictHostKey,
		KnownHosts:    cfg.KnownHostsPath,
		ConnTimeout:   config.DefaultSSHConnTimeout,
	}
}

func buildRetry(cfg *config.Config) *retry.Policy {
	if cfg.RetryAttempts <= 1 {
		return retry.Once()
	}
	return &retry.Policy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
		MaxDelay: config.DefaultMaxRetryDelay,
		Jitter:   true,
	}
}
