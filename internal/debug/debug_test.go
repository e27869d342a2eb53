package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTail(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"c", "d"}, tail(lines, 2))
	assert.Equal(t, lines, tail(lines, 10))
	assert.Nil(t, tail(lines, 0))

	got := tail(lines, 4)
	got[0] = "x"
	assert.Equal(t, "a", lines[0])
}
