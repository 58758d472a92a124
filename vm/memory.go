package vm

import (
	"encoding/binary"
	"fmt"
)

const MemorySize = 1 << 15

const (
	numRegisters = 8
	registerBase = MemorySize // word value 32768 names register 0
	addrMask     = MemorySize - 1
)

type memory struct {
	cells [MemorySize]word
}

// Addresses are 15-bit; the high bit of a 16-bit address is ignored.
func (mem *memory) write(addr, value word) {
	mem.cells[addr&addrMask] = value
}

func (mem *memory) read(addr word) word {
	return mem.cells[addr&addrMask]
}

/* The image is a flat sequence of 16-bit little-endian pairs (low byte
first), loaded verbatim starting at address 0. This is a pure memory
write: words with no valid operand interpretation may sit in memory
harmlessly until fetched. */
func (mem *memory) loadImage(image []byte) (int, error) {
	if len(image)%2 != 0 {
		return 0, fmt.Errorf("image is %d bytes, want a whole number of 16-bit words", len(image))
	}
	n := len(image) / 2
	if n > MemorySize {
		return 0, fmt.Errorf("image is %d words, memory holds %d", n, MemorySize)
	}
	for i := 0; i < n; i++ {
		mem.cells[i] = word(binary.LittleEndian.Uint16(image[2*i:]))
	}
	return n, nil
}

func (mem *memory) loadWords(words []uint16) {
	for i, w := range words {
		if i == MemorySize {
			break
		}
		mem.cells[i] = word(w)
	}
}
