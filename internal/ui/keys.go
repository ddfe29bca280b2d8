package ui

import (
	"unicode"
	"unicode/utf8"
)

const (
	ctrlC     = 0x03
	bel       = 0x07
	backspace = 0x08
	esc       = 0x1b
	del       = 0x7f
)

// decodeKeys turns raw-mode stdin bytes into key events.  Trailing bytes
// that may be the start of a longer UTF-8 sequence are returned as rest
// so the caller can prepend them to the next read.
func decodeKeys(buf []byte) (events []KeyEvent, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == ctrlC:
			events = append(events, KeyEvent{Key: KeyCtrlC})
			i++
		case b == '\r' || b == '\n':
			events = append(events, KeyEvent{Key: KeyEnter})
			i++
			// A CRLF pair is one Enter.
			if b == '\r' && i < len(buf) && buf[i] == '\n' {
				i++
			}
		case b == del || b == backspace:
			events = append(events, KeyEvent{Key: KeyBackspace})
			i++
		case b == esc:
			n := escapeLen(buf[i:])
			if n == 1 {
				events = append(events, KeyEvent{Key: KeyEsc})
			} else {
				events = append(events, KeyEvent{Key: KeyUnknown})
			}
			i += n
		case b < 0x20:
			events = append(events, KeyEvent{Key: KeyUnknown})
			i++
		default:
			if !utf8.FullRune(buf[i:]) {
				return events, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			i += size
			if r == utf8.RuneError || !unicode.IsPrint(r) {
				events = append(events, KeyEvent{Key: KeyUnknown})
				continue
			}
			events = append(events, KeyEvent{Key: KeyRune, Rune: r})
		}
	}
	return events, nil
}

// escapeLen returns how many bytes the escape sequence at the start of
// buf occupies.  A lone ESC, or ESC followed by anything that does not
// start a CSI, SS3 or OSC sequence, is one byte.
func escapeLen(buf []byte) int {
	if len(buf) < 2 {
		return 1
	}
	switch buf[1] {
	case '[':
		// CSI: parameters and intermediates, then a final byte 0x40-0x7e.
		for j := 2; j < len(buf); j++ {
			if buf[j] >= 0x40 && buf[j] <= 0x7e {
				return j + 1
			}
		}
		return len(buf)
	case ']':
		// OSC, such as a color query reply: ends at BEL or ST (ESC \).
		for j := 2; j < len(buf); j++ {
			if buf[j] == bel {
				return j + 1
			}
			if buf[j] == esc && j+1 < len(buf) && buf[j+1] == '\\' {
				return j + 2
			}
		}
		return len(buf)
	case 'O':
		if len(buf) >= 3 {
			return 3
		}
		return len(buf)
	default:
		return 1
	}
}
