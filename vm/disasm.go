package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders a one-line listing per instruction for the n words
// of memory starting at addr. It never executes anything: words that are
// not a defined opcode come out as raw data lines, which is common inside
// an image's data sections.
func (vm *VM) Disassemble(addr uint16, n int) []string {
	var lines []string
	at := word(addr)
	end := word(addr) + word(n)
	for at < end {
		line, size := vm.disassembleAt(at)
		lines = append(lines, line)
		at += size
	}
	return lines
}

func (vm *VM) disassembleAt(at word) (string, word) {
	w := vm.cpu.memory.read(at)
	if int(w) >= len(opcodeTable) {
		return fmt.Sprintf("0x%04x  dw %d", at, w), 1
	}

	entry := opcodeTable[w]
	var b strings.Builder
	fmt.Fprintf(&b, "0x%04x  %s", at, entry.name)
	for i := 0; i < entry.arity; i++ {
		fmt.Fprintf(&b, " %s", formatOperand(vm.cpu.memory.read(at+1+word(i)), w == OP_OUT))
	}
	return b.String(), 1 + word(entry.arity)
}

// formatOperand prints registers as r0..r7 and literals as numbers; for
// out, printable literals show as the character being printed.
func formatOperand(w word, asChar bool) string {
	switch {
	case w >= registerBase && w < registerBase+numRegisters:
		return fmt.Sprintf("r%d", w-registerBase)
	case w >= registerBase+numRegisters:
		return fmt.Sprintf("!%d", w)
	case asChar && w >= 0x20 && w < 0x7F:
		return fmt.Sprintf("'%c'", rune(w))
	case asChar && w == '\n':
		return `'\n'`
	default:
		return fmt.Sprintf("%d", w)
	}
}
