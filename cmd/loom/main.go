// Command loom compiles, renders, previews and exports templates.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/config"
	loomerrors "github.com/vango-dev/loom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		loomerrors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the settings shared by every command.
type app struct {
	configPath string
	debug      bool
	noColor    bool

	cfg *config.Config
	env *loom.Environment
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "loom",
		Short: "Compile and render HTML templates with reactive slots",
		Long: `loom compiles HTML templates with value slots into construction
programs and renders them.

Template files mark slots with ${name}; the name selects a value from
the YAML or JSON data file passed with --data. Dotted names reach into
nested maps: ${user.name}.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				loomerrors.DisableColors()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: loom.yaml in the working directory)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log compiler and runtime diagnostics")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Print errors without ANSI colors")

	root.AddCommand(
		compileCmd(a),
		renderCmd(a),
		serveCmd(a),
		exportCmd(a),
		versionCmd(),
	)
	return root
}

// setup loads the configuration, applies command-line overrides and
// builds the environment.
func (a *app) setup(cmd *cobra.Command, overrides ...func(*config.Config)) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	if a.debug {
		a.cfg.Debug = true
	}
	for _, o := range overrides {
		o(a.cfg)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.env = loom.FromConfig(a.cfg, loom.WithLogger(a.cfg.Logger(cmd.ErrOrStderr())))
	return nil
}

// output opens path for writing, or returns the command's stdout for "".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
