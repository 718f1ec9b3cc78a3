package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	shi "github.com/shi-lang/shi"
)

const appName = "shi"

func main() {
	root := &cobra.Command{
		Use:   appName + " [file]",
		Short: "shi - a small lisp with a relocating heap",
		Long: `shi evaluates s-expression programs.

With a file argument the file is evaluated; with piped standard input the
input is evaluated; otherwise an interactive REPL starts.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(shi.Version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// run boots the runtime: prelude first, then (shi-main) decides between
// file, stdin and REPL based on *args* and isatty.
func run() error {
	cfg := shi.LoadConfig()
	rt := shi.NewRuntime(cfg, os.Args)

	if err := rt.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("unhandled error: %s", err))
		os.Exit(1)
	}
	return nil
}
