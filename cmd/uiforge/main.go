package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aizetachan/ui-forge-sub001/pkg/forge"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

const version = "0.1.0-dev"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel    string
	logFormat   string
	noTypeAware bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "uiforge",
		Short: "Analyze and edit React component libraries",
		Long: `uiforge parses a React component library into a model of its components,
prop schemas, variants, stylesheets and design tokens, and applies
targeted edits to stylesheets, the manifest and the theme without
reformatting the rest of the file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text|json")
	rootCmd.PersistentFlags().BoolVar(&opts.noTypeAware, "no-type-aware", false, "Skip type-aware prop extraction and use heuristics only")

	rootCmd.AddCommand(
		newParseCmd(opts),
		newCSSCmd(opts),
		newPropDefaultCmd(opts),
		newTokenCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "uiforge %s\n", version)
			},
		},
	)
	return rootCmd
}

// logger builds the process logger. Logs always go to stderr so that stdout
// stays clean for command output and the stdio transport.
func (o *globalOptions) logger(w io.Writer) (*slog.Logger, error) {
	format := util.LogFormat(strings.ToLower(o.logFormat))
	if format != util.FormatText && format != util.FormatJSON {
		return nil, fmt.Errorf("invalid --log-format %q", o.logFormat)
	}
	return util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(o.logLevel),
		Format: format,
		Output: w,
	}), nil
}

// newForge builds a Forge from the global flags. Callers must Close it.
func (o *globalOptions) newForge(cmd *cobra.Command) (*forge.Forge, *slog.Logger, error) {
	logger, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	f := forge.New(forge.Options{Logger: logger, DisableTypeAware: o.noTypeAware})
	return f, logger, nil
}
