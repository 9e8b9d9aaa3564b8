package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func compileCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Print a template's compiled program",
		Long: `Compile a template file and print its instruction listing.

Formats:
  text     readable listing (default)
  msgpack  binary encoding of the same listing

Examples:
  loom compile page.html
  loom compile page.html -f msgpack -o page.loom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			t, _, err := newSource(args[0], "").template()
			if err != nil {
				return err
			}
			prog, err := a.env.Compile(t)
			if err != nil {
				return err
			}

			w, done, err := output(cmd, out)
			if err != nil {
				return err
			}
			switch format {
			case "text":
				_, err = fmt.Fprint(w, prog.String())
			case "msgpack":
				var data []byte
				if data, err = prog.Encode(); err == nil {
					_, err = w.Write(data)
				}
			default:
				err = fmt.Errorf("unknown format %q (want text or msgpack)", format)
			}
			if cerr := done(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or msgpack")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
