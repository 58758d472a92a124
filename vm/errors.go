package vm

import "fmt"

// List of machine faults for Errno
const (
	ErrInvalidInstructionValue = Errno(iota)
	ErrExpectedRegisterOperand
	ErrInvalidOpCode
	ErrStackUnderflow
	ErrDivisionByZero
	ErrInputReadFailure
)

var strError = []string{
	"invalid instruction value",
	"expected register operand",
	"invalid opcode",
	"stack underflow",
	"division by zero",
	"input read failure",
}

// Errno describes the reason a running program faulted.
type Errno int

func (e Errno) Error() string {
	return strError[e]
}

// Fault describes the cause and the location of a machine fault. Every
// fault is terminal: the engine stops and returns it to the caller as-is.
type Fault struct {
	Errno Errno // nature of the fault
	IP    word  // address of the word that raised it
	Err   error // underlying I/O error when Errno is ErrInputReadFailure
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("vm: %s at 0x%04x: %s", f.Errno, f.IP, f.Err)
	}
	return fmt.Sprintf("vm: %s at 0x%04x", f.Errno, f.IP)
}

func (f *Fault) Unwrap() error {
	return f.Errno
}
