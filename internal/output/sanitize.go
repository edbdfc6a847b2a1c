package output

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// SanitizeTerminal makes untrusted text (command lines, environment
// variables, socket addresses) safe to print: control characters and
// invalid UTF-8 bytes become visible escapes, e.g. "hi\x1b[31m" prints as
// "hi\\x1b[31m". Tabs and newlines are kept.
func SanitizeTerminal(s string) string {
	return sanitize(s, true)
}

// SanitizeLine is SanitizeTerminal for text that must stay on one line,
// such as table cells. Tabs and newlines are escaped too.
func SanitizeLine(s string) string {
	return sanitize(s, false)
}

func sanitize(s string, keepLayout bool) string {
	idx := 0
	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		if needsEscape(r, size, keepLayout) {
			break
		}
		idx += size
	}
	if idx == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:idx])

	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		switch {
		case r == utf8.RuneError && size == 1:
			appendEscapedByte(&b, s[idx])
		case needsEscape(r, size, keepLayout):
			appendEscapedRune(&b, r)
		default:
			b.WriteString(s[idx : idx+size])
		}
		idx += size
	}

	return b.String()
}

func needsEscape(r rune, size int, keepLayout bool) bool {
	if r == utf8.RuneError && size == 1 {
		return true
	}
	if r == '\n' || r == '\t' {
		return !keepLayout
	}
	return unicode.IsControl(r)
}

func appendEscapedByte(b *strings.Builder, bt byte) {
	b.WriteString(`\\x`)
	b.WriteByte(hexDigits[bt>>4])
	b.WriteByte(hexDigits[bt&0x0f])
}

// appendEscapedRune writes the shortest escape that fits r:
//   - r = 0x1b     -> "\x1b"
//   - r = 0x2028   -> "\u2028"
//   - r = 0x1f600  -> "\U0001f600"
func appendEscapedRune(b *strings.Builder, r rune) {
	// 0xFF: "\xHH" (simple byte escape)
	if r <= 0xFF {
		appendEscapedByte(b, byte(r))
		return
	}

	// <= 0xFFFF: "\uHHHH" (BMP escape)
	if r <= 0xFFFF {
		b.WriteString(`\\u`)
		b.WriteByte(hexDigits[(r>>12)&0x0f])
		b.WriteByte(hexDigits[(r>>8)&0x0f])
		b.WriteByte(hexDigits[(r>>4)&0x0f])
		b.WriteByte(hexDigits[r&0x0f])
		return
	}

	// otherwise: "\UHHHHHHHH" (full 32-bit escape)
	b.WriteString(`\\U`)
	b.WriteByte(hexDigits[(r>>28)&0x0f])
	b.WriteByte(hexDigits[(r>>24)&0x0f])
	b.WriteByte(hexDigits[(r>>20)&0x0f])
	b.WriteByte(hexDigits[(r>>16)&0x0f])
	b.WriteByte(hexDigits[(r>>12)&0x0f])
	b.WriteByte(hexDigits[(r>>8)&0x0f])
	b.WriteByte(hexDigits[(r>>4)&0x0f])
	b.WriteByte(hexDigits[r&0x0f])
}
