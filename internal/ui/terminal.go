package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	ncerr "termchat/internal/errors"
)

// Terminal is the raw-mode terminal.  Open it once and defer Close; Close
// restores cooked mode on every exit path.
type Terminal struct {
	in    *os.File
	out   *os.File
	fd    int
	state *term.State
	tout  *termenv.Output
}

// OpenTerminal switches in to raw mode and prepares out for drawing.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ncerr.ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		in:    in,
		out:   out,
		fd:    fd,
		state: state,
		tout:  termenv.NewOutput(out),
	}
	t.tout.HideCursor()
	t.tout.ClearScreen()
	return t, nil
}

// Size returns the terminal size in cells.
func (t *Terminal) Size() (int, int, error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		// stdout may be redirected; fall back to the input side.
		return term.GetSize(t.fd)
	}
	return w, h, nil
}

// HasDarkBackground asks the terminal for its background color.  The
// reply arrives on the input side, so call it before anything else
// starts reading there.
func (t *Terminal) HasDarkBackground() bool {
	return t.tout.HasDarkBackground()
}

// Close clears the screen, shows the cursor and leaves raw mode.  It is
// safe to call more than once.
func (t *Terminal) Close() error {
	if t.state == nil {
		return nil
	}
	t.tout.ClearScreen()
	t.tout.MoveCursor(1, 1)
	t.tout.ShowCursor()

	err := term.Restore(t.fd, t.state)
	t.state = nil
	return err
}
