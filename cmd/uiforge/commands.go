package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aizetachan/ui-forge-sub001/pkg/cascade"
	"github.com/aizetachan/ui-forge-sub001/pkg/forge"
	mcpserver "github.com/aizetachan/ui-forge-sub001/pkg/mcp"
	"github.com/aizetachan/ui-forge-sub001/pkg/mcplog"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/props"
	"github.com/aizetachan/ui-forge-sub001/pkg/watch"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	var component string

	cmd := &cobra.Command{
		Use:   "parse <repo>",
		Short: "Parse a component library and print its model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			repo, err := f.ParseRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if component != "" {
				comp, ok := repo.Component(component)
				if !ok {
					return fmt.Errorf("component %q not found", component)
				}
				repo.Components = []model.Component{*comp}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, repo)
			}
			printRepository(out, repo)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full model as JSON")
	cmd.Flags().StringVarP(&component, "component", "c", "", "Only print this component")
	return cmd
}

func newCSSCmd(opts *globalOptions) *cobra.Command {
	cssCmd := &cobra.Command{
		Use:   "css",
		Short: "Read, edit and merge stylesheet declarations",
	}

	var media string
	getCmd := &cobra.Command{
		Use:   "get <file> <selector> <property>",
		Short: "Print the authored value of a declaration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			value, found, err := f.ReadCSSProperty(args[0], args[1], args[2], media)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s { %s } not found in %s", args[1], args[2], args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	getCmd.Flags().StringVar(&media, "media", "", "Media query containing the rule")

	var setMedia string
	var setJSON bool
	setCmd := &cobra.Command{
		Use:   "set <file> <selector> <property> <value>",
		Short: "Set one declaration, creating the rule or declaration when missing",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			res := f.WriteCSSChange(forge.CSSChange{
				FilePath:   args[0],
				Selector:   args[1],
				Property:   args[2],
				Value:      args[3],
				MediaQuery: setMedia,
			})
			return reportWrite(cmd.OutOrStdout(), res, setJSON)
		},
	}
	setCmd.Flags().StringVar(&setMedia, "media", "", "Media query containing the rule")
	setCmd.Flags().BoolVar(&setJSON, "json", false, "Print the write result as JSON")

	var view cascade.View
	var stylesJSON bool
	stylesCmd := &cobra.Command{
		Use:   "styles <repo> <component>",
		Short: "Print the merged styles of a component view",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			repo, err := f.ParseRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			comp, ok := repo.Component(args[1])
			if !ok {
				return fmt.Errorf("component %q not found", args[1])
			}
			merged, err := forge.ComponentStyles(comp, view, nil)
			if err != nil {
				return err
			}
			if stylesJSON {
				return writeJSON(cmd.OutOrStdout(), merged)
			}
			printMerged(cmd.OutOrStdout(), merged)
			return nil
		},
	}
	stylesCmd.Flags().StringVar(&view.BaseClass, "base", "", "Root class (default: first class rule)")
	stylesCmd.Flags().StringSliceVar(&view.Variants, "variant", nil, "Active variant class (repeatable)")
	stylesCmd.Flags().StringVar(&view.State, "state", "", "Interactive state, e.g. hover")
	stylesCmd.Flags().StringVar(&view.Media, "media", "", "Active media query")
	stylesCmd.Flags().BoolVar(&stylesJSON, "json", false, "Print as JSON")

	cssCmd.AddCommand(getCmd, setCmd, stylesCmd)
	return cssCmd
}

func newPropDefaultCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prop-default <manifest> <component> <prop> <value>",
		Short: "Set a component's default prop value in the manifest",
		Long: `Set a component's default prop value in the manifest.

The value is read as a literal: true, false, numbers and quoted strings keep
their type; anything else is stored as a string.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			var value any = args[3]
			if v, ok := props.ParseLiteral(args[3]); ok {
				value = v
			}
			res := f.WritePropDefault(forge.PropDefaultChange{
				ManifestPath:  args[0],
				ComponentName: args[1],
				PropName:      args[2],
				Value:         value,
			})
			return reportWrite(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the write result as JSON")
	return cmd
}

func newTokenCmd(opts *globalOptions) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Edit design tokens in the theme stylesheet",
	}

	var asJSON bool
	setCmd := &cobra.Command{
		Use:   "set <theme> <token> <value>",
		Short: "Set a custom property in the theme stylesheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			res := f.WriteTokenValue(forge.TokenChange{
				ThemeFilePath: args[0],
				TokenName:     args[1],
				NewValue:      args[2],
			})
			return reportWrite(cmd.OutOrStdout(), res, asJSON)
		},
	}
	setCmd.Flags().BoolVar(&asJSON, "json", false, "Print the write result as JSON")

	tokenCmd.AddCommand(setCmd)
	return tokenCmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <repo>",
		Short: "Re-parse the repository whenever its sources change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, logger, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			repo, err := f.ParseRepository(ctx, args[0])
			if err != nil {
				return err
			}
			printSummary(out, repo)

			w, err := watch.New(f, args[0], watch.Options{
				Debounce: debounce,
				OnParse: func(repo *model.RepositoryModel, err error) {
					if err != nil {
						fmt.Fprintf(out, "parse failed: %v\n", err)
						return
					}
					printSummary(out, repo)
				},
			}, logger)
			if err != nil {
				return err
			}
			defer w.Stop()

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before re-parsing")
	return cmd
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	var logFile, root string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, logger, err := opts.newForge(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			callLog, err := mcplog.NewLogger(resolveCallLogPath(logFile, root))
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			srv := mcpserver.NewServer(f, callLog, logger)
			if err := srv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append a JSONL record of every tool call to this file")
	cmd.Flags().StringVar(&root, "root", ".", "Project whose config may name the call log")
	return cmd
}

// reportWrite prints a write result and turns a failed write into an error.
func reportWrite(w io.Writer, res forge.WriteResult, asJSON bool) error {
	if asJSON {
		if err := writeJSON(w, res); err != nil {
			return err
		}
	} else if res.Success {
		if res.PreviousValue != "" {
			fmt.Fprintf(w, "%s (was %s)\n", res.Outcome, res.PreviousValue)
		} else {
			fmt.Fprintf(w, "%s\n", res.Outcome)
		}
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
