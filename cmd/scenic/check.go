package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenic-lang/scenic/internal/diag"
	"github.com/scenic-lang/scenic/runtime/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse files and report syntax errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := checkFile(path); err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func checkFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return err
	}
	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.New(path, string(src), !noColor).Render(err))
		return err
	}
	fmt.Printf("%s: ok (%d declarations)\n", path, len(prog.Declarations))
	return nil
}
