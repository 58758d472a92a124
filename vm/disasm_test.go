package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassemble(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{19, 65, 1, 32769, 123, 0, 40000})

	lines := machine.Disassemble(0, 7)
	assert.Equal(t, []string{
		"0x0000  out 'A'",
		"0x0002  set r1 123",
		"0x0005  halt",
		"0x0006  dw 40000",
	}, lines)
}

func TestDisassembleNeverExecutes(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{6, 0})
	machine.Disassemble(0, 2)
	assert.Equal(t, uint16(0), machine.IP())
}
