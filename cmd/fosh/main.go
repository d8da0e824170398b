package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/JustAGod1/fosh/runtime/annotator"
	"github.com/JustAGod1/fosh/runtime/builtin"
	"github.com/JustAGod1/fosh/runtime/cli"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/lexer"
)

func main() {
	var prompt string
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "fosh",
		Short:         "An interactive shell mixing command and expression dialects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				slog.SetLogLoggerLevel(slog.LevelDebug)
				lexer.Debug = true
			}
			claimForeground()

			universe := engine.NewUniverse()
			builtin.Install(universe)

			registry := annotator.NewRegistry()
			registry.Register(&annotator.PropertyNameAnnotator{Universe: universe})
			registry.Register(&annotator.ParameterAnnotator{Universe: universe})
			registry.Register(builtin.NewPathAnnotator())

			repl := cli.New(cli.Options{
				Prompt:   prompt,
				Universe: universe,
				Registry: registry,
			})
			return repl.Run()
		},
	}

	rootCmd.Flags().StringVar(&prompt, "prompt", "$ ", "Prompt text")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fosh: %v\n", err)
		os.Exit(1)
	}
}

// claimForeground puts the shell into its own process group and makes it
// the foreground group of the controlling terminal. Best-effort: running
// without a terminal is fine.
func claimForeground() {
	pid := unix.Getpid()
	if pid != unix.Getpgrp() {
		_ = unix.Setpgid(pid, pid)
	}
	if pgrp, err := unix.IoctlGetInt(unix.Stdin, unix.TIOCGPGRP); err == nil && pgrp != pid {
		_ = unix.IoctlSetPointerInt(unix.Stdin, unix.TIOCSPGRP, pid)
	}
}
