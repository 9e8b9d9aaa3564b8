package main

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/export"
)

func exportCmd(a *app) *cobra.Command {
	var (
		data    string
		out     string
		bucket  string
		prefix  string
		region  string
		title   string
		program bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Render a template and write it to a directory or S3",
		Long: `Render a template and export the page.

The page is written as <name>.html next to an optional <name>.program.txt
listing. With --title the output is a complete HTML document rather than a
fragment. With --s3-bucket the files are uploaded using the AWS_* credential
variables instead.

Examples:
  loom export page.html --data page.yaml --out dist
  loom export page.html --data page.yaml --s3-bucket my-site --s3-prefix preview/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.setup(cmd, func(c *config.Config) {
				if out != "" {
					c.Export.Output = out
				}
				if bucket != "" {
					c.Export.Bucket = bucket
				}
				if prefix != "" {
					c.Export.Prefix = prefix
				}
				if region != "" {
					c.Export.Region = region
				}
			})
			if err != nil {
				return err
			}

			page, err := newSource(args[0], data).load()
			if err != nil {
				return err
			}
			var html bytes.Buffer
			if title != "" {
				err = a.env.RenderDocument(&html, title, page.Template, page.Values...)
			} else {
				var s string
				s, err = a.env.RenderHTML(page.Template, page.Values...)
				html.WriteString(s)
			}
			if err != nil {
				return err
			}

			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			files := []export.File{{Name: name + ".html", Data: html.Bytes()}}
			if program {
				prog, err := a.env.Compile(page.Template)
				if err != nil {
					return err
				}
				files = append(files, export.File{Name: name + ".program.txt", Data: []byte(prog.String())})
			}

			var target export.Target = export.Dir{Root: a.cfg.OutputPath()}
			if a.cfg.Export.Bucket != "" {
				client := export.NewS3Client(a.cfg.Export.Region)
				target = export.NewBucket(client, a.cfg.Export.Bucket, a.cfg.Export.Prefix)
			}
			if err := export.Export(cmd.Context(), target, files...); err != nil {
				return err
			}
			success(cmd, "Exported %d file(s) to %s", len(files), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "Upload to this S3 bucket")
	cmd.Flags().StringVar(&prefix, "s3-prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "Wrap the output in a full HTML document with this title")
	cmd.Flags().BoolVar(&program, "program", false, "Also export the compiled program listing")
	return cmd
}
