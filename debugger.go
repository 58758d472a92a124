package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/aryanA101a/synacor-vm-go/vm"
)

// debugger is a readline REPL wrapped around one machine instance. It
// drives the engine through the same single-step operation the run loop
// uses, so stepping and running see identical semantics.
type debugger struct {
	machine     *vm.VM
	breakpoints map[uint16]bool
	halted      bool
}

func newDebugger(machine *vm.VM) *debugger {
	return &debugger{
		machine:     machine,
		breakpoints: make(map[uint16]bool),
	}
}

const debuggerHelp = `commands:
  s [n]          step n instructions (default 1)
  c              continue until breakpoint, halt or fault
  b <addr>       toggle a breakpoint
  r              print registers, instruction pointer and stack depth
  x <addr> [n]   print n memory words starting at addr (default 8)
  d [addr] [n]   disassemble n words (default: 16 at the instruction pointer)
  set r<i> <v>   set a register
  stack          print the stack, top first
  q              quit`

func (d *debugger) repl() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "(vm) ",
		HistoryFile: "/tmp/synacor_debug_history.txt",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println(debuggerHelp)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "q" || fields[0] == "quit" {
			return nil
		}
		if err := d.dispatch(fields); err != nil {
			fmt.Println(err)
		}
	}
}

func (d *debugger) dispatch(fields []string) error {
	switch fields[0] {
	case "s", "step":
		n := 1
		if len(fields) > 1 {
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return fmt.Errorf("step: %w", err)
			}
		}
		for i := 0; i < n && !d.halted; i++ {
			if !d.step() {
				break
			}
		}
		d.printLocation()

	case "c", "continue":
		for !d.halted {
			if !d.step() {
				break
			}
			if d.breakpoints[d.machine.IP()] {
				fmt.Printf("breakpoint at 0x%04x\n", d.machine.IP())
				break
			}
		}
		d.printLocation()

	case "b", "break":
		if len(fields) < 2 {
			return errors.New("break: want an address")
		}
		addr, err := parseAddr(fields[1])
		if err != nil {
			return fmt.Errorf("break: %w", err)
		}
		if d.breakpoints[addr] {
			delete(d.breakpoints, addr)
			fmt.Printf("breakpoint cleared at 0x%04x\n", addr)
		} else {
			d.breakpoints[addr] = true
			fmt.Printf("breakpoint set at 0x%04x\n", addr)
		}

	case "r", "regs":
		for i := 0; i < 8; i++ {
			fmt.Printf("r%d=%-6d", i, d.machine.Register(i))
		}
		fmt.Printf("\nip=0x%04x stack depth=%d\n", d.machine.IP(), len(d.machine.Stack()))

	case "x":
		if len(fields) < 2 {
			return errors.New("x: want an address")
		}
		addr, err := parseAddr(fields[1])
		if err != nil {
			return fmt.Errorf("x: %w", err)
		}
		n := 8
		if len(fields) > 2 {
			if n, err = strconv.Atoi(fields[2]); err != nil {
				return fmt.Errorf("x: %w", err)
			}
		}
		for i := 0; i < n; i++ {
			a := addr + uint16(i)
			fmt.Printf("0x%04x: %d\n", a, d.machine.Mem(a))
		}

	case "d", "disasm":
		addr := d.machine.IP()
		n := 16
		var err error
		if len(fields) > 1 {
			if addr, err = parseAddr(fields[1]); err != nil {
				return fmt.Errorf("disasm: %w", err)
			}
		}
		if len(fields) > 2 {
			if n, err = strconv.Atoi(fields[2]); err != nil {
				return fmt.Errorf("disasm: %w", err)
			}
		}
		for _, line := range d.machine.Disassemble(addr, n) {
			fmt.Println(line)
		}

	case "set":
		if len(fields) < 3 || !strings.HasPrefix(fields[1], "r") {
			return errors.New("set: want r<i> <value>")
		}
		i, err := strconv.Atoi(fields[1][1:])
		if err != nil || i < 0 || i > 7 {
			return errors.New("set: register must be r0..r7")
		}
		v, err := strconv.ParseUint(fields[2], 0, 16)
		if err != nil {
			return fmt.Errorf("set: %w", err)
		}
		d.machine.SetRegister(i, uint16(v))

	case "stack":
		st := d.machine.Stack()
		if len(st) == 0 {
			fmt.Println("stack is empty")
		}
		for i := len(st) - 1; i >= 0; i-- {
			fmt.Printf("%2d: %d\n", len(st)-1-i, st[i])
		}

	case "h", "help":
		fmt.Println(debuggerHelp)

	default:
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return nil
}

// step executes one instruction and reports whether the machine can keep
// going.
func (d *debugger) step() bool {
	halted, err := d.machine.Step()
	if err != nil {
		fmt.Println(err)
		return false
	}
	if halted {
		fmt.Println("program halted")
		d.halted = true
		return false
	}
	return true
}

func (d *debugger) printLocation() {
	if d.halted {
		return
	}
	for _, line := range d.machine.Disassemble(d.machine.IP(), 1) {
		fmt.Println(line)
	}
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
