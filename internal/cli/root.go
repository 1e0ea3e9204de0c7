// Package cli provides the docshuffle command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docshuffle/internal/config"
	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/model"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	cfg    config.Config
	schema *model.Schema
	log    *slog.Logger

	logLevel  string
	logFormat string
	envFile   string
	maxWords  int
}

func newRootCmd() *cobra.Command {
	a := &app{schema: demo.Schema()}

	cmd := &cobra.Command{
		Use:   "docshuffle",
		Short: "Shuffle the sibling order of nested-box documents",
		Long: `docshuffle loads a nested-box document (doc > parent > childparent > child)
and randomly reorders the children of every node in one atomic edit.

Documents can be read from:
  - the embedded demo document (no file argument)
  - a JSON document (*.json)
  - rendered editor HTML (--dom)
  - any supported upload format (txt, md, csv, html, pdf, docx), imported
    into boxes by section`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format: json or text")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment")
	cmd.PersistentFlags().IntVar(&a.maxWords, "max-child-words", -1, "split imported paragraphs longer than this; 0 disables (default from IMPORT_MAX_CHILD_WORDS)")

	cmd.AddCommand(newShuffleCmd(a))
	cmd.AddCommand(newValidateCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	a.cfg = config.Load()
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	if a.maxWords >= 0 {
		a.cfg.ImportMaxChildWords = a.maxWords
	}
	if _, err := config.ParseLevel(a.cfg.LogLevel); err != nil {
		return err
	}
	switch a.logFormat {
	case "json", "text":
		a.cfg.LogFormat = a.logFormat
	default:
		return fmt.Errorf("--log-format must be json or text, got %q", a.logFormat)
	}
	a.log = a.cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

// Execute runs the docshuffle command line.
func Execute() error {
	return newRootCmd().Execute()
}
