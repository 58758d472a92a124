package vm

import (
	"bufio"
	goIO "io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// console adapts the process terminal to the machine's one-byte-at-a-time
// I/O instructions.
type console struct {
	reader                 *bufio.Reader
	writer                 goIO.Writer
	rawMode                bool
	originalTerminalConfig unix.Termios
}

func newConsole(in goIO.Reader, out goIO.Writer) console {
	return console{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// readByte blocks until one byte of input is available. End of stream or a
// read fault is reported to the caller, never swallowed.
func (c *console) readByte() (byte, error) {
	return c.reader.ReadByte()
}

func (c *console) writeByte(b byte) error {
	_, err := c.writer.Write([]byte{b})
	return err
}

// this configures the terminal to deliver keystrokes as they happen;
// no-op when stdin is not a terminal
func (c *console) enableRawMode() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	if err := termios.Tcgetattr(os.Stdin.Fd(), &c.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := c.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	c.rawMode = true
	return nil
}

func (c *console) disableRawMode() {
	if c.rawMode {
		termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &c.originalTerminalConfig)
		c.rawMode = false
	}
}
