package core

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"termchat/config"
	"termchat/util"
)

// PlanMode prints the resolved configuration and exits.  It backs
// --dry-run.
type PlanMode struct {
	Config *config.Config
	Out    io.Writer
}

// Run writes one "key value" line per setting.
func (m *PlanMode) Run(context.Context) error {
	cfg := m.Config
	tw := tabwriter.NewWriter(m.Out, 0, 4, 2, ' ', 0)

	route := "direct"
	if cfg.TunnelEnabled {
		route = fmt.Sprintf("ssh %s@%s", cfg.TunnelUser, util.FormatAddr(cfg.TunnelHost, cfg.TunnelPort))
	}
	hosts := "ip:port only"
	if cfg.Resolve {
		hosts = "ip:port or host:port"
	}
	logTo := "discarded"
	if cfg.LogFile != "" {
		logTo = cfg.LogFile
	}

	rows := [][2]string{
		{"bind", cfg.BindAddress},
		{"dial timeout", cfg.DialTimeout.String()},
		{"dial attempts", fmt.Sprint(cfg.RetryAttempts)},
		{"targets", hosts},
		{"route", route},
		{"poll interval", cfg.PollInterval.String()},
		{"tick", cfg.TickDelay.String()},
		{"color", fmt.Sprint(!cfg.NoColor)},
		{"log", logTo},
	}
	if cfg.RetryAttempts > 1 {
		rows = append(rows, [2]string{"retry delay", cfg.RetryDelay.String()})
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
