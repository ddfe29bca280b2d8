package ui

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncerr "termchat/internal/errors"
	"termchat/internal/session"
	"termchat/internal/transport"
)

func plainStyles() Styles {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return NewStyles(r)
}

func TestStatusBar_Idle(t *testing.T) {
	v := View{Status: Status{Label: "✕ not connected", Help: HelpIdle}, Width: 80}
	line, cursor := StatusBar(v, plainStyles())

	assert.Equal(t, 80, runewidth.StringWidth(line))
	assert.True(t, strings.HasPrefix(line, "✕ not connected"))
	assert.True(t, strings.HasSuffix(line, HelpIdle), "help should be right-aligned: %q", line)
	assert.Equal(t, -1, cursor)
}

func TestStatusBar_EnteringAddress(t *testing.T) {
	label := "✕ not connected"
	v := View{
		Status: Status{Label: label, Help: HelpIdle},
		Mode:   ModeEnteringAddress,
		Buffer: "10.0.0.1:80",
		Width:  80,
	}
	line, cursor := StatusBar(v, plainStyles())

	assert.True(t, strings.HasPrefix(line, label+" Address: 10.0.0.1:80"))
	assert.NotContains(t, line, HelpIdle)
	assert.Equal(t, runewidth.StringWidth(label+" Address: 10.0.0.1:80"), cursor)
	assert.Equal(t, 80, runewidth.StringWidth(line))
}

func TestStatusBar_NarrowTerminal(t *testing.T) {
	v := View{Status: Status{Label: "✔ connected: 127.0.0.1:9000", Help: HelpClose}, Width: 34}
	line, _ := StatusBar(v, plainStyles())

	assert.Equal(t, 34, runewidth.StringWidth(line))
	assert.Contains(t, line, "…", "help should be truncated")

	tiny := View{Status: Status{Label: "✔ connected: 127.0.0.1:9000"}, Width: 8}
	line, _ = StatusBar(tiny, plainStyles())
	assert.Equal(t, 8, runewidth.StringWidth(line))
}

func TestStatusBar_LongBufferShowsTail(t *testing.T) {
	v := View{
		Status: Status{Label: "✕ not connected"},
		Mode:   ModeEnteringAddress,
		Buffer: strings.Repeat("1", 50) + "END",
		Width:  40,
	}
	line, cursor := StatusBar(v, plainStyles())
	assert.Contains(t, line, "END")
	assert.Less(t, cursor, 40)
	assert.Equal(t, 40, runewidth.StringWidth(line))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "abc", tail("abc", 5))
	assert.Equal(t, "bc", tail("abc", 2))
	assert.Equal(t, "", tail("abc", 0))
	assert.Equal(t, "→", tail("é→", 1))
}

func TestStatusOf(t *testing.T) {
	d := &session.Dialer{Transport: &transport.TCPDialer{}}
	s := session.New(context.Background(), d, nil, nil)
	t.Cleanup(func() { s.Close() })

	st := StatusOf(s)
	assert.Equal(t, "✕ not connected", st.Label)
	assert.Equal(t, ToneError, st.Tone)
	assert.Equal(t, HelpIdle, st.Help)

	require.NoError(t, s.Listen("127.0.0.1:0"))
	addr := s.Connection().(session.Listening).Addr().String()
	st = StatusOf(s)
	assert.Equal(t, "● listening: "+addr, st.Label)
	assert.Equal(t, ToneWarning, st.Tone)
	assert.Equal(t, HelpClose, st.Help)

	// Binding the same port again fails; the label reports it.
	require.NoError(t, s.Disconnect())
	taken, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	defer taken.Close()
	var be *ncerr.BindError
	require.True(t, errors.As(s.Listen(addr), &be))
	st = StatusOf(s)
	assert.Equal(t, "● listening: address in use "+addr, st.Label)
	assert.Equal(t, HelpIdle, st.Help)
}

func TestStatusOf_DialStates(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	d := &session.Dialer{Transport: &transport.TCPDialer{}}
	s := session.New(context.Background(), d, nil, nil)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.BeginConnect(ln.Addr().String()))
	st := StatusOf(s)
	assert.Equal(t, "… connecting: "+ln.Addr().String(), st.Label)
	assert.Equal(t, "… connecting: "+s.Describe(), st.Label)
	assert.Equal(t, HelpCancel, st.Help)

	waitFor(t, s.PollConnect)
	st = StatusOf(s)
	assert.Equal(t, "✔ connected: "+ln.Addr().String(), st.Label)
	assert.Equal(t, "✔ connected: "+s.Describe(), st.Label)
	assert.Equal(t, ToneSuccess, st.Tone)

	require.NoError(t, s.Disconnect())
	require.NoError(t, s.BeginConnect("127.0.0.1:1"))
	waitFor(t, s.PollConnect)
	st = StatusOf(s)
	assert.Equal(t, "✕ not connected: refused 127.0.0.1:1", st.Label)
	assert.Equal(t, HelpRetry, st.Help)
}

func TestPainter_DrawsBottomRow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPainter(&buf, true, true)

	v := View{Status: Status{Label: "✕ not connected", Help: HelpIdle}, Width: 60, Height: 24}
	require.NoError(t, p.Draw(v))
	out := buf.String()
	assert.Contains(t, out, "\x1b[24;1H", "cursor should move to the last row")
	assert.Contains(t, out, "✕ not connected")
	assert.Contains(t, out, HelpIdle)

	// Identical frames are skipped.
	buf.Reset()
	require.NoError(t, p.Draw(v))
	assert.Empty(t, buf.String())

	// Clear forces a repaint.
	p.Clear()
	buf.Reset()
	require.NoError(t, p.Draw(v))
	assert.Contains(t, buf.String(), "✕ not connected")
}

func TestPainter_ShowsCursorWhileTyping(t *testing.T) {
	var buf bytes.Buffer
	p := NewPainter(&buf, true, true)

	v := View{
		Status: Status{Label: "✕ not connected"},
		Mode:   ModeEnteringAddress,
		Buffer: "1",
		Width:  60,
		Height: 10,
	}
	require.NoError(t, p.Draw(v))
	col := runewidth.StringWidth("✕ not connected Address: 1") + 1
	assert.Contains(t, buf.String(), "\x1b[10;"+itoa(col)+"H")
	assert.Contains(t, buf.String(), "\x1b[?25h")
}

func TestPainter_ExplicitBackground(t *testing.T) {
	v := View{Status: Status{Label: "✕ not connected", Help: HelpIdle}, Width: 60, Height: 24}

	var light, dark bytes.Buffer
	require.NoError(t, newPainter(&light, termenv.ANSI, false).Draw(v))
	require.NoError(t, newPainter(&dark, termenv.ANSI, true).Draw(v))

	assert.Contains(t, light.String(), "\x1b[47m", "light background uses the light bar")
	assert.Contains(t, dark.String(), "\x1b[40m", "dark background uses the dark bar")
	for _, out := range []string{light.String(), dark.String()} {
		assert.NotContains(t, out, "\x1b]11;", "no background color query")
		assert.NotContains(t, out, "\x1b[6n", "no cursor position query")
	}
}
