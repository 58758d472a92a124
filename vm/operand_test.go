package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOperandLiteralRange(t *testing.T) {
	for _, w := range []word{0, 1, 255, 12345, 32767} {
		o, err := decodeOperand(w)
		require.NoError(t, err)
		assert.Equal(t, literal, o.kind)
		assert.Equal(t, w, o.v)
	}
}

func TestDecodeOperandRegisterRange(t *testing.T) {
	for i := word(0); i < numRegisters; i++ {
		o, err := decodeOperand(registerBase + i)
		require.NoError(t, err)
		assert.Equal(t, registerRef, o.kind)
		assert.Equal(t, i, o.v)
	}
}

func TestDecodeOperandInvalid(t *testing.T) {
	for _, w := range []word{32776, 33000, 40000, 65535} {
		_, err := decodeOperand(w)
		assert.ErrorIs(t, err, ErrInvalidInstructionValue, "word %d", w)
	}
}

func TestRegisterIndex(t *testing.T) {
	o, err := decodeOperand(registerBase + 3)
	require.NoError(t, err)
	r, err := o.registerIndex()
	require.NoError(t, err)
	assert.Equal(t, word(3), r)
}

func TestRegisterIndexOnLiteral(t *testing.T) {
	o, err := decodeOperand(42)
	require.NoError(t, err)
	_, err = o.registerIndex()
	assert.ErrorIs(t, err, ErrExpectedRegisterOperand)
}
