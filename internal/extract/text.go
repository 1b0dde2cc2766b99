package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var errUndecodable = errors.New("text is not valid in any supported encoding")

type decoder struct {
	name string
	fn   func([]byte) (string, bool)
}

// decoders are tried in order; the first that accepts the bytes wins.
var decoders = []decoder{
	{"utf-8", decodeUTF8},
	{"utf-16", decodeUTF16},
	{"latin-1", decodeLatin1},
	{"cp1252", decodeCP1252},
}

func decodeText(data []byte) (string, error) {
	for _, d := range decoders {
		if s, ok := d.fn(data); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("decode text: %w", errUndecodable)
}

// NUL bytes never occur in 8-bit text; they mean UTF-16 or binary data.
func decodeUTF8(data []byte) (string, bool) {
	if hasNUL(data) || !utf8.Valid(data) {
		return "", false
	}
	return strings.TrimPrefix(string(data), "\ufeff"), true
}

// decodeUTF16 honors a byte order mark and otherwise assumes little endian,
// but only for input with NUL bytes, which 8-bit text never contains.
func decodeUTF16(data []byte) (string, bool) {
	if len(data)%2 != 0 {
		return "", false
	}
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff}) {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))(data)
	}
	if !hasNUL(data) {
		return "", false
	}
	s, ok := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))(data)
	if !ok || strings.ContainsRune(s, 0) {
		return "", false
	}
	return s, true
}

// decodeLatin1 rejects C1 control bytes, which almost always mean CP1252 punctuation.
func decodeLatin1(data []byte) (string, bool) {
	if hasNUL(data) {
		return "", false
	}
	for _, c := range data {
		if c >= 0x80 && c <= 0x9F {
			return "", false
		}
	}
	return decodeWith(charmap.ISO8859_1)(data)
}

func decodeCP1252(data []byte) (string, bool) {
	if hasNUL(data) {
		return "", false
	}
	return decodeWith(charmap.Windows1252)(data)
}

func hasNUL(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

func decodeWith(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil || bytesContainRuneError(out) {
			return "", false
		}
		return string(out), true
	}
}

func bytesContainRuneError(b []byte) bool {
	return strings.ContainsRune(string(b), utf8.RuneError)
}
