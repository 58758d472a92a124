package vm

import (
	"fmt"
	"log/slog"
)

type word uint16

// modulus for arithmetic results; also the literal value ceiling
const modulo word = 1 << 15

// opcodes
const (
	OP_HALT word = iota
	OP_SET
	OP_PUSH
	OP_POP
	OP_EQ
	OP_GT
	OP_JMP
	OP_JT
	OP_JF
	OP_ADD
	OP_MULT
	OP_MOD
	OP_AND
	OP_OR
	OP_NOT
	OP_RMEM
	OP_WMEM
	OP_CALL
	OP_RET
	OP_OUT
	OP_IN
	OP_NOOP
)

// mnemonic and operand count per opcode, shared by the trace logger and
// the disassembler
var opcodeTable = [...]struct {
	name  string
	arity int
}{
	OP_HALT: {"halt", 0},
	OP_SET:  {"set", 2},
	OP_PUSH: {"push", 1},
	OP_POP:  {"pop", 1},
	OP_EQ:   {"eq", 3},
	OP_GT:   {"gt", 3},
	OP_JMP:  {"jmp", 1},
	OP_JT:   {"jt", 2},
	OP_JF:   {"jf", 2},
	OP_ADD:  {"add", 3},
	OP_MULT: {"mult", 3},
	OP_MOD:  {"mod", 3},
	OP_AND:  {"and", 3},
	OP_OR:   {"or", 3},
	OP_NOT:  {"not", 2},
	OP_RMEM: {"rmem", 2},
	OP_WMEM: {"wmem", 2},
	OP_CALL: {"call", 1},
	OP_RET:  {"ret", 0},
	OP_OUT:  {"out", 1},
	OP_IN:   {"in", 1},
	OP_NOOP: {"noop", 0},
}

// signal is a handler's control outcome. Halting is how a program is meant
// to finish, so it travels apart from faults.
type signal int

const (
	sigContinue signal = iota
	sigHalt
)

type cpu struct {
	memory                  *memory
	generalPurposeRegisters [numRegisters]word
	stack                   stack
	instructionPointer      word
	console                 console
	trace                   *slog.Logger
}

func newCpu(mem *memory, con console) cpu {
	return cpu{
		memory:  mem,
		console: con,
	}
}

// fetch reads the word under the instruction pointer, advances the
// pointer, and decodes the word. The pointer moves even when decoding
// fails: fetch-then-validate, matching the architecture.
func (cpu *cpu) fetch() (operand, error) {
	at := cpu.instructionPointer
	w := cpu.memory.read(at)
	cpu.instructionPointer++
	o, err := decodeOperand(w)
	if err != nil {
		return operand{}, &Fault{Errno: ErrInvalidInstructionValue, IP: at}
	}
	return o, nil
}

// fetchValue fetches the next operand and resolves it to a number.
func (cpu *cpu) fetchValue() (word, error) {
	o, err := cpu.fetch()
	if err != nil {
		return 0, err
	}
	return cpu.resolve(o), nil
}

// fetchRegister fetches an operand that must name a register. Every write
// destination goes through here before any state is touched.
func (cpu *cpu) fetchRegister() (word, error) {
	at := cpu.instructionPointer
	o, err := cpu.fetch()
	if err != nil {
		return 0, err
	}
	r, err := o.registerIndex()
	if err != nil {
		return 0, &Fault{Errno: ErrExpectedRegisterOperand, IP: at}
	}
	return r, nil
}

// fetchBinary fetches a register destination and one source value, the
// shape of set, not and rmem.
func (cpu *cpu) fetchBinary() (a, b word, err error) {
	if a, err = cpu.fetchRegister(); err != nil {
		return
	}
	b, err = cpu.fetchValue()
	return
}

// fetchTernary fetches a register destination and two source values, the
// shape every arithmetic and comparison instruction shares.
func (cpu *cpu) fetchTernary() (a, b, c word, err error) {
	if a, err = cpu.fetchRegister(); err != nil {
		return
	}
	if b, err = cpu.fetchValue(); err != nil {
		return
	}
	c, err = cpu.fetchValue()
	return
}

// resolve turns an operand into its numeric value: literals as-is,
// register references by reading the register. This is the only path by
// which register contents enter computation.
func (cpu *cpu) resolve(o operand) word {
	if o.kind == registerRef {
		return cpu.generalPurposeRegisters[o.v]
	}
	return o.v
}

func (cpu *cpu) run() error {
	for {
		sig, err := cpu.step()
		if err != nil {
			return err
		}
		if sig == sigHalt {
			return nil
		}
	}
}

// step fetches one opcode word and executes the instruction it starts.
// Dispatch keys on the raw numeric value of the word; each case fetches
// its own operands, and validates all of them before mutating anything.
func (cpu *cpu) step() (signal, error) {
	at := cpu.instructionPointer
	instruction := cpu.memory.read(at)
	cpu.instructionPointer++
	if _, err := decodeOperand(instruction); err != nil {
		return sigContinue, &Fault{Errno: ErrInvalidInstructionValue, IP: at}
	}

	if cpu.trace != nil {
		cpu.trace.Debug("exec", "ip", fmt.Sprintf("0x%04x", at), "op", opcodeName(instruction))
	}

	switch instruction {
	case OP_HALT:
		return sigHalt, nil

	case OP_SET:
		a, b, err := cpu.fetchBinary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = b

	case OP_PUSH:
		a, err := cpu.fetchValue()
		if err != nil {
			return sigContinue, err
		}
		cpu.stack.push(a)

	case OP_POP:
		a, err := cpu.fetchRegister()
		if err != nil {
			return sigContinue, err
		}
		v, ok := cpu.stack.pop()
		if !ok {
			return sigContinue, &Fault{Errno: ErrStackUnderflow, IP: at}
		}
		cpu.generalPurposeRegisters[a] = v

	case OP_EQ:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = boolToWord(b == c)

	case OP_GT:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = boolToWord(b > c)

	case OP_JMP:
		a, err := cpu.fetchValue()
		if err != nil {
			return sigContinue, err
		}
		cpu.instructionPointer = a

	case OP_JT:
		a, b, err := cpu.fetchTwoValues()
		if err != nil {
			return sigContinue, err
		}
		if a != 0 {
			cpu.instructionPointer = b
		}

	case OP_JF:
		a, b, err := cpu.fetchTwoValues()
		if err != nil {
			return sigContinue, err
		}
		if a == 0 {
			cpu.instructionPointer = b
		}

	case OP_ADD:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = (b + c) % modulo

	case OP_MULT:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = (b * c) % modulo

	case OP_MOD:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		if c == 0 {
			return sigContinue, &Fault{Errno: ErrDivisionByZero, IP: at}
		}
		cpu.generalPurposeRegisters[a] = b % c

	case OP_AND:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = b & c

	case OP_OR:
		a, b, c, err := cpu.fetchTernary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = b | c

	case OP_NOT:
		a, b, err := cpu.fetchBinary()
		if err != nil {
			return sigContinue, err
		}
		// 15-bit complement, bit 15 untouched
		cpu.generalPurposeRegisters[a] = b ^ 0x7FFF

	case OP_RMEM:
		a, b, err := cpu.fetchBinary()
		if err != nil {
			return sigContinue, err
		}
		cpu.generalPurposeRegisters[a] = cpu.memory.read(b)

	case OP_WMEM:
		a, b, err := cpu.fetchTwoValues()
		if err != nil {
			return sigContinue, err
		}
		cpu.memory.write(a, b)

	case OP_CALL:
		a, err := cpu.fetchValue()
		if err != nil {
			return sigContinue, err
		}
		cpu.stack.push(cpu.instructionPointer)
		cpu.instructionPointer = a

	case OP_RET:
		v, ok := cpu.stack.pop()
		if !ok {
			return sigContinue, &Fault{Errno: ErrStackUnderflow, IP: at}
		}
		cpu.instructionPointer = v

	case OP_OUT:
		a, err := cpu.fetchValue()
		if err != nil {
			return sigContinue, err
		}
		if err := cpu.console.writeByte(byte(a)); err != nil {
			return sigContinue, fmt.Errorf("write output: %w", err)
		}

	case OP_IN:
		// destination is validated before the blocking read, so a
		// malformed in never consumes input
		a, err := cpu.fetchRegister()
		if err != nil {
			return sigContinue, err
		}
		b, err := cpu.console.readByte()
		if err != nil {
			return sigContinue, &Fault{Errno: ErrInputReadFailure, IP: at, Err: err}
		}
		cpu.generalPurposeRegisters[a] = word(b)

	case OP_NOOP:

	default:
		return sigContinue, &Fault{Errno: ErrInvalidOpCode, IP: at}
	}

	return sigContinue, nil
}

// fetchTwoValues fetches two operands and resolves both, the shape of the
// conditional jumps and wmem.
func (cpu *cpu) fetchTwoValues() (a, b word, err error) {
	if a, err = cpu.fetchValue(); err != nil {
		return
	}
	b, err = cpu.fetchValue()
	return
}

func boolToWord(b bool) word {
	if b {
		return 1
	}
	return 0
}

func opcodeName(w word) string {
	if int(w) < len(opcodeTable) {
		return opcodeTable[w].name
	}
	return fmt.Sprintf("%d", w)
}
