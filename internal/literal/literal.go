// Package literal implements the escaping used for every line-oriented file the tokenizer reads
// and writes. The format matches Python's "unicode-escape" codec: printable ASCII is written as is,
// backslash and control characters use backslash escapes, everything else uses \x, \u or \U with
// lowercase hex digits. Encoded strings never contain tabs, newlines or non-ASCII runes.
package literal

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrBadEscape is returned by Decode for truncated or malformed escape sequences.
var ErrBadEscape = errors.New("bad literal escape")

const hexDigits = "0123456789abcdef"

// Encode returns the literal form of s.
func Encode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r >= 0x20 && r < 0x7f:
			sb.WriteRune(r)
		case r < 0x100:
			writeHex(&sb, 'x', r, 2)
		case r < 0x10000:
			writeHex(&sb, 'u', r, 4)
		default:
			writeHex(&sb, 'U', r, 8)
		}
	}
	return sb.String()
}

func writeHex(sb *strings.Builder, kind byte, r rune, width int) {
	sb.WriteByte('\\')
	sb.WriteByte(kind)
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		sb.WriteByte(hexDigits[(r>>uint(shift))&0xf])
	}
}

// Decode reverses Encode. It also accepts the remaining escapes of the Python codec
// (\a \b \f \v \' \" and up to three octal digits); an unknown escape is kept verbatim.
func Decode(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteRune(r)
			i += size
			continue
		}

		if i+1 == len(s) {
			return "", errors.Wrapf(ErrBadEscape, "trailing backslash in %q", s)
		}

		esc := s[i+1]
		i += 2
		switch esc {
		case '\\', '\'', '"':
			sb.WriteByte(esc)
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[esc]
			if i+width > len(s) {
				return "", errors.Wrapf(ErrBadEscape, "truncated \\%c escape in %q", esc, s)
			}
			r, ok := parseHex(s[i : i+width])
			if !ok || r < 0 || r > utf8.MaxRune {
				return "", errors.Wrapf(ErrBadEscape, "invalid \\%c%s in %q", esc, s[i:i+width], s)
			}
			sb.WriteRune(r)
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			r := rune(esc - '0')
			for n := 1; n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				r = r*8 + rune(s[i]-'0')
				i++
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			i--
		}
	}
	return sb.String(), nil
}

func parseHex(s string) (rune, bool) {
	var r rune
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(hexDigits, lower(s[i]))
		if d < 0 {
			return 0, false
		}
		r = r<<4 | rune(d)
	}
	return r, true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
