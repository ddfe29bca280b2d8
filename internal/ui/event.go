// Package ui is the terminal front end: it decodes keystrokes, routes
// them to the chat session, and paints the status bar.
package ui

// Event is one input observation: a [KeyEvent] or a [ResizeEvent].
type Event interface {
	event()
}

// Key identifies the keys the router cares about.
type Key int

const (
	KeyRune Key = iota // a printable character, see KeyEvent.Rune
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyCtrlC
	KeyUnknown // control characters and escape sequences we ignore
)

func (k Key) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEnter:
		return "enter"
	case KeyEsc:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyCtrlC:
		return "ctrl+c"
	default:
		return "unknown"
	}
}

// KeyEvent is a single decoded key press.
type KeyEvent struct {
	Key  Key
	Rune rune // set when Key == KeyRune
}

// ResizeEvent reports the terminal size in cells.  The first one is
// sent at startup with the initial size.
type ResizeEvent struct {
	Width  int
	Height int
}

func (KeyEvent) event()    {}
func (ResizeEvent) event() {}
