package chatbot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimContext(t *testing.T) {
	short := "User: oi\nBot: olá\n"
	assert.Equal(t, short, TrimContext(short))

	long := strings.Repeat("a", 500) + strings.Repeat("b", 1000)
	assert.Equal(t, strings.Repeat("b", 1000), TrimContext(long))

	exact := strings.Repeat("c", MaxContextLength)
	assert.Equal(t, exact, TrimContext(exact))
}

func TestTrimContextCountsCharacters(t *testing.T) {
	long := strings.Repeat("ç", 1200)

	got := TrimContext(long)

	assert.Equal(t, MaxContextLength, len([]rune(got)))
	assert.Equal(t, strings.Repeat("ç", MaxContextLength), got)
}

func TestAppendTurn(t *testing.T) {
	assert.Equal(t, "prev\nUser: m\nBot: r\n", AppendTurn("prev\n", "m", "r"))
	assert.Equal(t, "User: m\nBot: r\n", AppendTurn("", "m", "r"))
}
