package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ncerr "termchat/internal/errors"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	err := Execute(context.Background(), []string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"-h"}} {
		t.Run(args[0], func(t *testing.T) {
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	err := Execute(context.Background(), []string{
		"-b", "127.0.0.1:0", "-w", "5", "--retry", "3", "--dry-run",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"bind", []string{"-b", "localhost:80"}, "bind"},
		{"timeout", []string{"-w", "0"}, "timeout"},
		{"retry", []string{"--retry", "0"}, "retry"},
		{"ssh without tunnel", []string{"--ssh-agent"}, "ssh-key"},
		{"tunnel", []string{"-T", "user@host:notaport"}, "tunnel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Execute(context.Background(), append(tt.args, "--dry-run"))
			var ce *ncerr.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

// TestExecute_EnvOverlay verifies TERMCHAT_* values are used and that
// flags win over them.
func TestExecute_EnvOverlay(t *testing.T) {
	t.Setenv("TERMCHAT_BIND", "not-an-address")
	err := Execute(context.Background(), []string{"--dry-run"})
	if err == nil || !strings.Contains(err.Error(), "--bind") {
		t.Fatalf("expected bind error from env, got %v", err)
	}

	err = Execute(context.Background(), []string{"-b", "127.0.0.1:0", "--dry-run"})
	if err != nil {
		t.Fatalf("flag should override env: %v", err)
	}
}

// TestExecute_LogFile verifies --log-file is created.
func TestExecute_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termchat.log")
	err := Execute(context.Background(), []string{"--log-file", path, "--dry-run"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	err := Execute(context.Background(), []string{"--nonexistent-flag"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_PositionalRejected verifies stray arguments are errors.
func TestExecute_PositionalRejected(t *testing.T) {
	err := Execute(context.Background(), []string{"example.com", "80"})
	if err == nil {
		t.Fatal("expected error for positional arguments")
	}
}
