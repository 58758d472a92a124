package vm

import (
	"io"
	"log/slog"
)

// VM is one machine instance: 32768 words of memory, eight registers, an
// unbounded stack and an instruction pointer, all zeroed at construction.
// A VM is not safe for concurrent use; one goroutine drives it at a time.
type VM struct {
	cpu cpu
}

func NewVM(in io.Reader, out io.Writer) *VM {
	mem := &memory{}
	return &VM{
		cpu: newCpu(mem, newConsole(in, out)),
	}
}

// SetTrace makes the machine log every executed instruction at debug level.
// A nil logger disables tracing.
func (vm *VM) SetTrace(logger *slog.Logger) {
	vm.cpu.trace = logger
}

// LoadImage decodes a little-endian binary image into memory at address 0
// and returns the number of words loaded.
func (vm *VM) LoadImage(image []byte) (int, error) {
	return vm.cpu.memory.loadImage(image)
}

// LoadWords writes already-decoded words into memory starting at address 0.
func (vm *VM) LoadWords(words []uint16) {
	vm.cpu.memory.loadWords(words)
}

// Run executes from the current instruction pointer until the program
// halts or faults. A reached halt returns nil; every fault is terminal and
// comes back verbatim.
func (vm *VM) Run() error {
	return vm.cpu.run()
}

// Step executes a single instruction and reports whether the program
// halted on it.
func (vm *VM) Step() (halted bool, err error) {
	sig, err := vm.cpu.step()
	return sig == sigHalt, err
}

func (vm *VM) IP() uint16 {
	return uint16(vm.cpu.instructionPointer)
}

func (vm *VM) SetIP(addr uint16) {
	vm.cpu.instructionPointer = word(addr)
}

func (vm *VM) Register(i int) uint16 {
	return uint16(vm.cpu.generalPurposeRegisters[i])
}

func (vm *VM) SetRegister(i int, v uint16) {
	vm.cpu.generalPurposeRegisters[i] = word(v)
}

func (vm *VM) Mem(addr uint16) uint16 {
	return uint16(vm.cpu.memory.read(word(addr)))
}

// Stack returns a copy of the stack, bottom first.
func (vm *VM) Stack() []uint16 {
	out := make([]uint16, vm.cpu.stack.depth())
	for i, w := range vm.cpu.stack {
		out[i] = uint16(w)
	}
	return out
}

func (vm *VM) EnableRawMode() error {
	return vm.cpu.console.enableRawMode()
}

func (vm *VM) DisableRawMode() {
	vm.cpu.console.disableRawMode()
}
