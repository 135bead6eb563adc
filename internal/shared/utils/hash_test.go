package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	h := DefaultHasher()

	assert.Equal(t, SHA256, h.Algorithm())
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		h.HashString(""))
	assert.Equal(t, h.Hash([]byte("DIRECT")), h.HashString("DIRECT"))
	assert.NotEqual(t, h.HashString("DIRECT"), h.HashString("DIRECT "))
}

func TestUnknownAlgorithmFallsBack(t *testing.T) {
	assert.Equal(t,
		DefaultHasher().HashString("proxy.pac"),
		NewHasher("md4").HashString("proxy.pac"))
}

func TestShortHash(t *testing.T) {
	full := DefaultHasher().HashString("proxy.pac")

	assert.Len(t, ShortHash(full), ShortHashLength)
	assert.Equal(t, full[:ShortHashLength], ShortHash(full))
	assert.Equal(t, "abc", ShortHash("abc"))
}
