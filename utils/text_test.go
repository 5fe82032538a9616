package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\n\tb   c \n"))
	assert.Equal(t, "", NormalizeWhitespace("   \n\t "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "", Truncate("abc", -1))

	// Never cut inside a multibyte rune.
	s := "héllo" // é is two bytes starting at index 1
	assert.Equal(t, "h", Truncate(s, 2))
	assert.Equal(t, "hé", Truncate(s, 3))
}

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "dates", StripPunctuation("dates?"))
	assert.Equal(t, "école", StripPunctuation("école,"))
	assert.Equal(t, "", StripPunctuation("¿?!"))
}
