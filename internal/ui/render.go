package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"termchat/internal/session"
)

// Tone selects the style of the status label.
type Tone int

const (
	ToneError Tone = iota
	ToneWarning
	ToneSuccess
)

// Help texts, one per situation.
const (
	HelpIdle   = "[C - Connect to Address] [L - Listen]"
	HelpRetry  = "[R - Retry] [C - Connect to Address] [L - Listen]"
	HelpCancel = "[Shift-Q - Cancel Dial]"
	HelpClose  = "[Shift-Q - Close Connection]"
)

const addressPrompt = " Address: "

// Status is the connection summary shown on the left of the bar and the
// help shown on the right.
type Status struct {
	Label string
	Tone  Tone
	Help  string
}

// StatusOf summarises the session for display.
func StatusOf(s *session.Session) Status {
	if s.Pending() != nil {
		return Status{Label: "… connecting: " + s.Describe(), Tone: ToneWarning, Help: HelpCancel}
	}

	switch s.Connection().(type) {
	case session.Listening:
		return Status{Label: "● listening: " + s.Describe(), Tone: ToneWarning, Help: HelpClose}
	case session.Connected:
		return Status{Label: "✔ connected: " + s.Describe(), Tone: ToneSuccess, Help: HelpClose}
	}

	if be := s.LastBindError(); be != nil {
		return Status{Label: fmt.Sprintf("● listening: %s %s", be.Kind, be.Addr), Tone: ToneWarning, Help: HelpIdle}
	}
	if ce := s.LastDialError(); ce != nil {
		return Status{Label: fmt.Sprintf("✕ not connected: %s %s", ce.Kind, ce.Addr), Tone: ToneError, Help: HelpRetry}
	}
	return Status{Label: "✕ not connected", Tone: ToneError, Help: HelpIdle}
}

// View is everything the painter needs for one frame.
type View struct {
	Status Status
	Mode   Mode
	Buffer string
	Width  int
	Height int
}

// StatusBar lays out the bottom row.  It returns the styled line and,
// while an address is being entered, the 0-based cursor column.  The
// column is -1 when the cursor should be hidden.
func StatusBar(v View, st Styles) (string, int) {
	width := v.Width
	if width <= 0 {
		width = 80
	}

	label := runewidth.Truncate(v.Status.Label, width, "…")
	used := runewidth.StringWidth(label)

	var b strings.Builder
	b.WriteString(toneStyle(st, v.Status.Tone).Render(label))

	cursor := -1
	if v.Mode == ModeEnteringAddress {
		pw := runewidth.StringWidth(addressPrompt)
		room := width - used - pw - 1
		if room >= 0 {
			buf := tail(v.Buffer, room)
			b.WriteString(st.Prompt.Render(addressPrompt))
			b.WriteString(st.Bar.Render(buf))
			used += pw + runewidth.StringWidth(buf)
		}
		cursor = min(used, width-1)
	} else if room := width - used - 1; room > 0 {
		help := runewidth.Truncate(v.Status.Help, room, "…")
		hw := runewidth.StringWidth(help)
		b.WriteString(st.Bar.Render(strings.Repeat(" ", width-used-hw)))
		b.WriteString(st.Help.Render(help))
		used = width
	}

	if used < width {
		b.WriteString(st.Bar.Render(strings.Repeat(" ", width-used)))
	}
	return b.String(), cursor
}

func toneStyle(st Styles, t Tone) lipgloss.Style {
	switch t {
	case ToneSuccess:
		return st.Success
	case ToneWarning:
		return st.Warning
	default:
		return st.Error
	}
}

// tail returns the longest suffix of s that fits in width cells.
func tail(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	rs := []rune(s)
	w := 0
	i := len(rs)
	for i > 0 {
		rw := runewidth.RuneWidth(rs[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(rs[i:])
}

// Painter draws frames on a terminal with termenv cursor control and
// lipgloss styles.
type Painter struct {
	out    *termenv.Output
	styles Styles

	lastLine   string
	lastCursor int
	lastRow    int
}

// NewPainter draws to w.  With noColor every style renders as plain
// text.  darkBackground selects the bar palette; it is fixed up front so
// rendering never queries the terminal.
func NewPainter(w io.Writer, noColor, darkBackground bool) *Painter {
	profile := termenv.NewOutput(w).Profile
	if noColor {
		profile = termenv.Ascii
	}
	return newPainter(w, profile, darkBackground)
}

func newPainter(w io.Writer, profile termenv.Profile, darkBackground bool) *Painter {
	opts := []termenv.OutputOption{termenv.WithProfile(profile)}
	r := lipgloss.NewRenderer(w, opts...)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(darkBackground)
	return &Painter{
		out:    termenv.NewOutput(w, opts...),
		styles: NewStyles(r),
	}
}

// Clear wipes the screen; the next Draw repaints unconditionally.
func (p *Painter) Clear() {
	p.out.ClearScreen()
	p.lastLine = ""
	p.lastRow = 0
}

// Draw paints the status bar on the bottom row.  Frames identical to the
// previous one are skipped.
func (p *Painter) Draw(v View) error {
	line, cursor := StatusBar(v, p.styles)
	row := max(v.Height, 1)
	if line == p.lastLine && cursor == p.lastCursor && row == p.lastRow {
		return nil
	}

	p.out.MoveCursor(row, 1)
	p.out.ClearLine()
	if _, err := io.WriteString(p.out, line); err != nil {
		return err
	}
	if cursor >= 0 {
		p.out.MoveCursor(row, cursor+1)
		p.out.ShowCursor()
	} else {
		p.out.HideCursor()
	}

	p.lastLine, p.lastCursor, p.lastRow = line, cursor, row
	return nil
}
