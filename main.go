package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aryanA101a/synacor-vm-go/vm"
)

func main() {
	var (
		rawMode bool
		trace   bool
	)

	rootCmd := &cobra.Command{
		Use:           "synacor",
		Short:         "Virtual machine for the Synacor 16-bit architecture",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	runCmd := &cobra.Command{
		Use:   "run <image-file>",
		Short: "Execute a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(args[0], rawMode, trace)
		},
	}
	runCmd.Flags().BoolVar(&rawMode, "raw", false, "put the terminal in raw mode for the run")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log every executed instruction to stderr")

	disasmCmd := &cobra.Command{
		Use:   "disasm <image-file>",
		Short: "Print a listing of a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmImage(args[0])
		},
	}

	debugCmd := &cobra.Command{
		Use:   "debug <image-file>",
		Short: "Run a program image under the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, err := loadMachine(args[0])
			if err != nil {
				return err
			}
			return newDebugger(machine).repl()
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd, debugCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadMachine(path string) (*vm.VM, int, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	machine := vm.NewVM(os.Stdin, os.Stdout)
	n, err := machine.LoadImage(image)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", path, err)
	}
	return machine, n, nil
}

func runImage(path string, rawMode, trace bool) error {
	machine, _, err := loadMachine(path)
	if err != nil {
		return err
	}
	if trace {
		machine.SetTrace(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if rawMode {
		if err := machine.EnableRawMode(); err != nil {
			return err
		}
		defer machine.DisableRawMode()
	}

	// restore the terminal before dying on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		select {
		case <-done:
			return
		default:
		}
		machine.DisableRawMode()
		fmt.Fprintln(os.Stderr)
		os.Exit(130)
	}()

	err = machine.Run()
	close(done)
	return err
}

func disasmImage(path string) error {
	machine, n, err := loadMachine(path)
	if err != nil {
		return err
	}
	for _, line := range machine.Disassemble(0, n) {
		fmt.Println(line)
	}
	return nil
}
