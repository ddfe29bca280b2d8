package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []KeyEvent
		rest string
	}{
		{"ascii", "c1", []KeyEvent{{Key: KeyRune, Rune: 'c'}, {Key: KeyRune, Rune: '1'}}, ""},
		{"ctrl-c", "\x03", []KeyEvent{{Key: KeyCtrlC}}, ""},
		{"enter cr", "\r", []KeyEvent{{Key: KeyEnter}}, ""},
		{"enter crlf", "\r\n", []KeyEvent{{Key: KeyEnter}}, ""},
		{"enter lf", "\n", []KeyEvent{{Key: KeyEnter}}, ""},
		{"backspace del", "\x7f", []KeyEvent{{Key: KeyBackspace}}, ""},
		{"backspace bs", "\x08", []KeyEvent{{Key: KeyBackspace}}, ""},
		{"lone esc", "\x1b", []KeyEvent{{Key: KeyEsc}}, ""},
		{"arrow key", "\x1b[A", []KeyEvent{{Key: KeyUnknown}}, ""},
		{"csi with params", "\x1b[1;5Cx", []KeyEvent{{Key: KeyUnknown}, {Key: KeyRune, Rune: 'x'}}, ""},
		{"ss3", "\x1bOP", []KeyEvent{{Key: KeyUnknown}}, ""},
		{"osc reply st", "\x1b]11;rgb:1c1c/1c1c/1c1c\x1b\\", []KeyEvent{{Key: KeyUnknown}}, ""},
		{"osc reply bel", "\x1b]11;rgb:ffff/ffff/ffff\x07r", []KeyEvent{{Key: KeyUnknown}, {Key: KeyRune, Rune: 'r'}}, ""},
		{"osc then cursor report", "\x1b]11;rgb:0/0/0\x1b\\\x1b[24;1R", []KeyEvent{{Key: KeyUnknown}, {Key: KeyUnknown}}, ""},
		{"esc then rune", "\x1bq", []KeyEvent{{Key: KeyEsc}, {Key: KeyRune, Rune: 'q'}}, ""},
		{"tab ignored", "\t", []KeyEvent{{Key: KeyUnknown}}, ""},
		{"shift-q", "Q", []KeyEvent{{Key: KeyRune, Rune: 'Q'}}, ""},
		{"utf8", "é→", []KeyEvent{{Key: KeyRune, Rune: 'é'}, {Key: KeyRune, Rune: '→'}}, ""},
		{"partial utf8", "a\xe2\x86", []KeyEvent{{Key: KeyRune, Rune: 'a'}}, "\xe2\x86"},
		{"invalid byte", "\xff", []KeyEvent{{Key: KeyUnknown}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := decodeKeys([]byte(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rest, string(rest))
		})
	}
}

func TestDecodeKeys_SplitRuneAcrossReads(t *testing.T) {
	first, rest := decodeKeys([]byte("\xe2\x86"))
	assert.Empty(t, first)

	second, rest := decodeKeys(append(rest, '\x92'))
	assert.Equal(t, []KeyEvent{{Key: KeyRune, Rune: '→'}}, second)
	assert.Empty(t, rest)
}
