package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario: the image bytes for [19, 65, 0] run end to end and print "A"
func TestLoadImageAndRun(t *testing.T) {
	image := []byte{0x13, 0x00, 0x41, 0x00, 0x00, 0x00}
	out := &bytes.Buffer{}
	machine := NewVM(strings.NewReader(""), out)

	n, err := machine.LoadImage(image)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, machine.Run())
	assert.Equal(t, "A", out.String())
}

func TestLoadImageLittleEndian(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	// 0x7FFF then 0x8000: low byte first
	_, err := machine.LoadImage([]byte{0xFF, 0x7F, 0x00, 0x80})
	require.NoError(t, err)
	assert.Equal(t, uint16(32767), machine.Mem(0))
	assert.Equal(t, uint16(32768), machine.Mem(1))
}

func TestLoadImageOddLength(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	_, err := machine.LoadImage([]byte{0x13, 0x00, 0x41})
	assert.Error(t, err)
}

func TestLoadImageTooLarge(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	_, err := machine.LoadImage(make([]byte, 2*(MemorySize+1)))
	assert.Error(t, err)
}

// loading performs no validity checks; bad words sit in memory untouched
func TestLoadWordsAllowsInvalidWords(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{40000, 65535})
	assert.Equal(t, uint16(40000), machine.Mem(0))
	assert.Equal(t, uint16(65535), machine.Mem(1))
}

// scenario: add(dest=r0, 4, 5) then noop, zeroed memory halts after it
func TestRunAddScenario(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{9, 32768, 4, 5, 21})
	require.NoError(t, machine.Run())
	assert.Equal(t, uint16(9), machine.Register(0))
}

// scenario: push r0, pop r0, halt
func TestRunPushPopScenario(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{2, 32768, 3, 32768, 0})
	require.NoError(t, machine.Run())
	assert.Equal(t, uint16(0), machine.Register(0))
	assert.Empty(t, machine.Stack())
}

func TestStepReportsHalt(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.LoadWords([]uint16{21, 0})

	halted, err := machine.Step()
	require.NoError(t, err)
	assert.False(t, halted)

	halted, err = machine.Step()
	require.NoError(t, err)
	assert.True(t, halted)
	assert.Equal(t, uint16(2), machine.IP())
}

func TestRegisterAccessors(t *testing.T) {
	machine := NewVM(strings.NewReader(""), &bytes.Buffer{})
	machine.SetRegister(3, 999)
	assert.Equal(t, uint16(999), machine.Register(3))

	machine.SetIP(100)
	assert.Equal(t, uint16(100), machine.IP())
}
