package ui

import (
	"errors"

	ncerr "termchat/internal/errors"
	"termchat/util"
)

// Mode is the input mode of the router.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEnteringAddress
)

func (m Mode) String() string {
	if m == ModeEnteringAddress {
		return "entering-address"
	}
	return "normal"
}

// Controller is the part of the session the router drives.
// *session.Session implements it.
type Controller interface {
	Listen(bindAddr string) error
	BeginConnect(target string) error
	Disconnect() error
	Redial() error
}

// RouterOptions configures a Router.
type RouterOptions struct {
	BindAddress    string // used by the listen key
	AllowHostnames bool   // accept host:port as well as ip:port
	Logger         *util.Logger
}

// Router maps input events onto session operations and owns the UI
// state: the mode, the address buffer and the viewport.
type Router struct {
	ctl  Controller
	opts RouterOptions

	mode   Mode
	buffer []rune
	width  int
	height int
	redraw bool
}

// NewRouter returns a router in normal mode.
func NewRouter(ctl Controller, opts RouterOptions) *Router {
	return &Router{ctl: ctl, opts: opts}
}

// Mode returns the current input mode.
func (r *Router) Mode() Mode { return r.mode }

// Buffer returns the address typed so far.
func (r *Router) Buffer() string { return string(r.buffer) }

// Viewport returns the size from the most recent resize event.
func (r *Router) Viewport() (width, height int) { return r.width, r.height }

// TakeRedraw reports whether a full redraw was requested since the last
// call, and clears the request.
func (r *Router) TakeRedraw() bool {
	v := r.redraw
	r.redraw = false
	return v
}

// Handle applies one event.  It returns errors.ErrInterrupted on Ctrl-C;
// session failures are logged and otherwise ignored, since the status
// bar shows them.
func (r *Router) Handle(ev Event) error {
	switch e := ev.(type) {
	case ResizeEvent:
		r.width, r.height = e.Width, e.Height
		r.redraw = true
		return nil
	case KeyEvent:
		if e.Key == KeyCtrlC {
			return ncerr.ErrInterrupted
		}
		if r.mode == ModeEnteringAddress {
			r.handleAddressKey(e)
			return nil
		}
		r.handleNormalKey(e)
	}
	return nil
}

func (r *Router) handleNormalKey(e KeyEvent) {
	if e.Key != KeyRune {
		return
	}
	switch e.Rune {
	case 'c', 'C':
		r.mode = ModeEnteringAddress
		r.buffer = r.buffer[:0]
	case 'l', 'L':
		r.report("listen", r.ctl.Listen(r.opts.BindAddress))
	case 'Q':
		r.report("disconnect", r.ctl.Disconnect())
	case 'r', 'R':
		r.report("redial", r.ctl.Redial())
	}
}

func (r *Router) handleAddressKey(e KeyEvent) {
	switch e.Key {
	case KeyRune:
		r.buffer = append(r.buffer, e.Rune)
	case KeyBackspace:
		if len(r.buffer) > 0 {
			r.buffer = r.buffer[:len(r.buffer)-1]
		}
	case KeyEsc:
		r.leaveAddressMode()
	case KeyEnter:
		text := string(r.buffer)
		r.leaveAddressMode()
		r.submit(text)
	}
}

func (r *Router) leaveAddressMode() {
	r.mode = ModeNormal
	r.buffer = r.buffer[:0]
}

// submit starts a dial when text is a valid address and drops it
// silently otherwise.
func (r *Router) submit(text string) {
	target, err := util.ParseTarget(text, r.opts.AllowHostnames)
	if err != nil {
		r.opts.Logger.Verbose("ignoring address %q: %v", text, err)
		return
	}
	r.report("connect", r.ctl.BeginConnect(target))
}

func (r *Router) report(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ncerr.ErrDialPending),
		errors.Is(err, ncerr.ErrAlreadyConnected),
		errors.Is(err, ncerr.ErrNotConnected),
		errors.Is(err, ncerr.ErrNothingToRetry):
		r.opts.Logger.Verbose("%s: %v", op, err)
	default:
		r.opts.Logger.Warn("%s: %v", op, err)
	}
}
