package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/scenic-lang/scenic/internal/diag"
	"github.com/scenic-lang/scenic/runtime/parser"
)

var astFormat string

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Parse a file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		prog, err := parser.Parse(src)
		if err != nil {
			fmt.Fprint(os.Stderr, diag.New(path, string(src), !noColor).Render(err))
			return fmt.Errorf("parse %s: %w", path, err)
		}

		switch astFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(prog)
		case "cbor":
			data, err := cbor.Marshal(prog)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		case "source":
			fmt.Println(prog.String())
			return nil
		default:
			return fmt.Errorf("unknown format %q (json, cbor, source)", astFormat)
		}
	},
}

func init() {
	astCmd.Flags().StringVar(&astFormat, "format", "json", "output format: json, cbor or source")
}
