package source

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const utf8Charset = "utf-8"

// decode converts a script body to UTF-8. A UTF-16 byte order mark wins,
// then a charset declared in contentType; otherwise valid UTF-8 is kept and
// anything else is detected.
func decode(data []byte, contentType string) (string, string) {
	name := bomCharset(data)
	if name == "" {
		name = declaredCharset(contentType)
	}
	if name == "" {
		if utf8.Valid(data) {
			return trimBOM(string(data)), utf8Charset
		}
		name = detectCharset(data)
	}

	enc, canonical := charset.Lookup(name)
	if enc == nil {
		enc, canonical = encoding.Nop, utf8Charset
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return trimBOM(strings.ToValidUTF8(string(data), "\ufffd")), utf8Charset
	}
	return trimBOM(strings.ToValidUTF8(string(out), "\ufffd")), canonical
}

func bomCharset(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xff, 0xfe}):
		return "utf-16le"
	case bytes.HasPrefix(data, []byte{0xfe, 0xff}):
		return "utf-16be"
	default:
		return ""
	}
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// detectCharset guesses the encoding of data
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "windows-1252"
	}
	return strings.ToLower(result.Charset)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
