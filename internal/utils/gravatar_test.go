package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	// Known hash from the Gravatar documentation example address.
	url := GravatarURL("MyEmailAddress@example.com ", 250)
	assert.Equal(t, "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=250&d=identicon", url)
}

func TestGravatarURL_NormalizesInput(t *testing.T) {
	a := GravatarURL("user@example.com", 100)
	b := GravatarURL("  USER@Example.COM ", 100)
	assert.Equal(t, a, b)
}
