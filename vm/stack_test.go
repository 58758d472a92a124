package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackLIFO(t *testing.T) {
	var s stack
	s.push(1)
	s.push(2)
	s.push(3)
	assert.Equal(t, 3, s.depth())

	for _, want := range []word{3, 2, 1} {
		got, ok := s.pop()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, s.depth())
}

func TestStackPopEmpty(t *testing.T) {
	var s stack
	_, ok := s.pop()
	assert.False(t, ok)
}
