package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
)

func renderCmd(a *app) *cobra.Command {
	var (
		data   string
		out    string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a template to HTML",
		Long: `Render a template file with values from a data file.

Examples:
  loom render page.html --data page.yaml
  loom render page.html --data page.json --pretty -o page.out.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.setup(cmd, func(c *config.Config) {
				if pretty {
					c.Render.Pretty = true
				}
			})
			if err != nil {
				return err
			}

			page, err := newSource(args[0], data).load()
			if err != nil {
				return err
			}
			html, err := a.env.RenderHTML(page.Template, page.Values...)
			if err != nil {
				return err
			}

			w, done, err := output(cmd, out)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, html); err != nil {
				done()
				return err
			}
			return done()
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	return cmd
}
