package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/go-lazydocs/docstring"
)

const rootLongDesc = `
lazydocs generates Markdown API documentation from Google-style doc comments.
Every target (a package directory, a .go file, an import path, or
pkg.Symbol / pkg.Type.Method) becomes one Markdown page per package, with
section headers such as Args:, Returns: and Note: rendered as Markdown.

  • Reads settings from .lazydocs.yaml, LAZYDOCS_* variables and flags
  • Writes an API overview and an mkdocs .pages file (--overview-file)
  • Checks doc comment style without generating pages (--validate)
  • Regenerates on change (--watch)
  • Lists what would be documented (` + "`lazydocs list`" + `)
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "lazydocs [flags] [target...]",
		Short:         "Generate Markdown API docs from Google-style doc comments",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&app.cfgFile, "config", "", "config file (default .lazydocs.yaml in the working directory)")
	persistent.String("log-level", "info", "log level: debug, info, warn or error")
	persistent.BoolP("verbose", "v", false, "shorthand for --log-level=debug")
	persistent.String("ignore-marker", docstring.DefaultIgnoreMarker, "doc comment marker that excludes a symbol")
	persistent.StringSlice("ignored-modules", nil, "modules to skip, together with their sub-modules")
	persistent.Bool("remove-package-prefix", false, "drop receiver and package qualifiers from headings and signatures")

	flags := cmd.Flags()
	flags.StringP("output-path", "o", defaultOutputPath, `output directory, or "stdout" to print pages`)
	flags.String("src-root-path", "", "root of the sources used for source links (default: git work tree)")
	flags.String("src-base-url", "", "prefix of every source link, e.g. a repository blob URL")
	flags.String("overview-file", "", "write an API overview page with this name")
	flags.Bool("watermark", true, "append a generated-by footer to every page")
	flags.Bool("disable-markdownlint", true, "prepend a markdownlint-disable comment to every page")
	flags.Bool("pretty", true, "tidy blank lines of the generated Markdown")
	flags.Bool("validate", false, "check doc comment style instead of generating pages")
	flags.String("validate-command", "", "external checker run with each target appended")
	flags.Bool("watch", false, "regenerate when Go files change")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(app.cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		level, err := cfg.level()
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
		if cfg.configFile != "" {
			app.logger.Debug("loaded config", "file", cfg.configFile)
		}
		return nil
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx, args)
	}

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func newListCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list [target...]",
		Short: "List the modules, types and functions that would be documented",
		Long: strings.TrimSpace(`
Print a table of every member the targets would document, with its kind,
declaration site and summary. Honors the ignore settings of the root command.

Example:

  lazydocs list ./...
`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return app.listMembers(ctx, args, cmd.OutOrStdout())
		},
	}
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for lazydocs.

The output should be evaluated by your shell. For example:

  # bash
  lazydocs completion bash > /usr/local/etc/bash_completion.d/lazydocs

  # zsh
  lazydocs completion zsh > "${fpath[1]}/_lazydocs"

  # fish
  lazydocs completion fish | source

  # PowerShell
  lazydocs completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  lazydocs gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
