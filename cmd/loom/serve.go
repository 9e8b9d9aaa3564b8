package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/dev"
)

func serveCmd(a *app) *cobra.Command {
	var (
		data string
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Preview a template with live reload",
		Long: `Serve a rendered template and reload the browser when the template
or data file changes.

Examples:
  loom serve page.html --data page.yaml
  loom serve page.html --port 8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.setup(cmd, func(c *config.Config) {
				if port > 0 {
					c.Dev.Port = port
				}
				if host != "" {
					c.Dev.Host = host
				}
			})
			if err != nil {
				return err
			}

			src := newSource(args[0], data)
			srv := dev.NewServer(dev.Options{
				Addr:   a.cfg.DevAddress(),
				Env:    a.env,
				Load:   src.load,
				Watch:  src.watchPaths(a.cfg.Dev.Watch),
				Reload: a.cfg.Dev.Reload,
				Logger: a.env.Logger(),
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd, "Serving %s at %s", args[0], a.cfg.DevURL())
			if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	return cmd
}
