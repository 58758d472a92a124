package vm

type operandKind int

const (
	literal operandKind = iota
	registerRef
)

// operand is one decoded word: either a literal value 0..32767 or a
// reference to one of the eight registers. It exists only between a fetch
// and the instruction that consumes it.
type operand struct {
	kind operandKind
	v    word // the literal value, or the register index
}

/* word meanings per the architecture spec:
   0..32767 are literal values, 32768..32775 name registers 0..7,
   32776 and above have no interpretation at all */
func decodeOperand(w word) (operand, error) {
	switch {
	case w < registerBase:
		return operand{literal, w}, nil
	case w < registerBase+numRegisters:
		return operand{registerRef, w - registerBase}, nil
	default:
		return operand{}, ErrInvalidInstructionValue
	}
}

// registerIndex returns the register this operand names. Only the eight
// named registers are writable, so every write destination goes through
// this check.
func (o operand) registerIndex() (word, error) {
	if o.kind != registerRef {
		return 0, ErrExpectedRegisterOperand
	}
	return o.v, nil
}
