package password

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding turns text into the bytes that were hashed.
type Encoding struct {
	Name   string
	Encode func(s string) []byte
}

var (
	UTF8    = Encoding{Name: "UTF-8", Encode: func(s string) []byte { return []byte(s) }}
	UTF16LE = textEncoding("UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	UTF16BE = textEncoding("UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	ASCII   = Encoding{Name: "ASCII", Encode: encodeASCII}
	UTF32LE = textEncoding("UTF-32LE", utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM))
)

// Encodings is the order in which legacy hashes are tried.
var Encodings = []Encoding{UTF8, UTF16LE, UTF16BE, ASCII, UTF32LE}

func textEncoding(name string, enc encoding.Encoding) Encoding {
	return Encoding{
		Name: name,
		Encode: func(s string) []byte {
			b, err := enc.NewEncoder().Bytes([]byte(s))
			if err != nil {
				return []byte(s)
			}
			return b
		},
	}
}

// encodeASCII replaces every non-ASCII UTF-16 code unit with '?', so a rune
// outside the basic plane becomes "??".
func encodeASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r > 0xFFFF:
			out = append(out, '?', '?')
		default:
			out = append(out, '?')
		}
	}
	return out
}
