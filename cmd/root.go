// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"termchat/config"
	"termchat/internal/core"
	"termchat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X termchat/cmd.version=1.1.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs termchat.  With no arguments it starts
// the interactive UI with the defaults (and any TERMCHAT_* overrides).
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("termchat", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.StringVarP(&cfg.BindAddress, "bind", "b", cfg.BindAddress, "Listen address used by the L key")
	timeoutSec := fs.IntP("timeout", "w", int(cfg.DialTimeout/time.Second), "Dial timeout in seconds")
	fs.IntVar(&cfg.RetryAttempts, "retry", cfg.RetryAttempts, "Connect attempts per dial (1 = no retry)")
	fs.DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "Delay before the first retry")
	fs.BoolVarP(&cfg.Resolve, "resolve", "r", cfg.Resolve, "Accept host:port as well as ip:port")

	// ── interface ────────────────────────────────────────────────
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Longest wait for input per frame")
	fs.DurationVar(&cfg.TickDelay, "tick", cfg.TickDelay, "Pause after every frame")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colors")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Dial through SSH jump host [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file")
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the resolved setup and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("termchat %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --help for usage)", fs.Arg(0))
	}

	if fs.Changed("timeout") {
		cfg.DialTimeout = time.Duration(*timeoutSec) * time.Second
	}

	// ── tunnel spec & validate ───────────────────────────────────
	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build & run ──────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	closeLog, err := routeLogs(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// routeLogs points logger at --log-file.  Without one the interactive UI
// owns the terminal, so logs are dropped; a dry run keeps stderr.
func routeLogs(cfg *config.Config, logger *util.Logger) (func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		logger.SetOutput(f)
		logger.SetTimestamps(true)
		return func() {
			logger.Sync() //nolint:errcheck
			f.Close()
		}, nil
	}
	if !cfg.DryRun {
		logger.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `termchat – terminal TCP chat client/listener v%s

Usage:
  termchat [options]

Keys:
  c          enter an address to connect to (Enter dials, Esc cancels)
  l          listen on the bind address
  r          retry the last failed dial
  Shift-Q    cancel a pending dial or close the connection
  Ctrl-C     quit

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  termchat                                    Listen on 0.0.0.0:8080 with L
  termchat -b 127.0.0.1:0                     Listen on an ephemeral port
  termchat -r --retry 3                       Allow hostnames, retry twice
  termchat -T admin@bastion --log-file t.log  Dial through a jump host

Environment:
  TERMCHAT_BIND, TERMCHAT_TIMEOUT, TERMCHAT_RETRY, TERMCHAT_TUNNEL, ...
  NO_COLOR disables colors.
`)
}
