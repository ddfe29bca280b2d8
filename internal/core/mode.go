// Package core is the orchestration layer.  It composes the transport,
// session and ui packages into runnable modes and provides a builder
// that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  ui  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete run of termchat: the interactive chat UI, or a dry
// run that only reports what would be used.
type Mode interface {
	Run(ctx context.Context) error
}
