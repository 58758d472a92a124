package vm

// stack is the machine's unbounded operand and call stack, strict LIFO.
type stack []word

func (s *stack) depth() int {
	return len(*s)
}

func (s *stack) push(w word) {
	*s = append(*s, w)
}

func (s *stack) pop() (word, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	var w word
	*s, w = (*s)[:len(*s)-1], (*s)[len(*s)-1]
	return w, true
}
