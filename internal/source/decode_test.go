package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        string
		charset     string
	}{
		{"plain utf-8", []byte("return \"DIRECT\";"), "", "return \"DIRECT\";", "utf-8"},
		{"utf-8 multibyte", []byte("// naïve"), "text/plain", "// naïve", "utf-8"},
		{"declared latin1", []byte("// na\xefve"), "text/plain; charset=iso-8859-1", "// naïve", "windows-1252"},
		{"declared utf-8 with invalid bytes", []byte("a\xffb"), "text/plain; charset=utf-8", "a\ufffdb", "utf-8"},
		{"unknown declared charset", []byte("abc"), "text/plain; charset=x-made-up", "abc", "utf-8"},
		{"bom", []byte("\xef\xbb\xbfabc"), "", "abc", "utf-8"},
		{"utf-16le bom", []byte("\xff\xfeD\x00I\x00R\x00"), "", "DIR", "utf-16le"},
		{"utf-16be bom beats declared", []byte("\xfe\xff\x00D\x00I\x00R"), "text/plain; charset=iso-8859-1", "DIR", "utf-16be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, name := decode(tt.data, tt.contentType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.charset, name)
		})
	}
}

func TestDecodeDetectsUndeclaredCharset(t *testing.T) {
	data := []byte("// Configuraci\xf3n del proxy para la oficina de Espa\xf1a\n" +
		"function FindProxyForURL(url, host) { return \"DIRECT\"; }\n")

	got, name := decode(data, "")
	assert.NotEqual(t, "utf-8", name)
	assert.Contains(t, got, "FindProxyForURL")
}

func TestDeclaredCharset(t *testing.T) {
	assert.Equal(t, "", declaredCharset(""))
	assert.Equal(t, "", declaredCharset("text/plain"))
	assert.Equal(t, "utf-16", declaredCharset("text/plain; charset=UTF-16"))
	assert.Equal(t, "", declaredCharset("%%%"))
}
