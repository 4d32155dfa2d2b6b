// Package main точка входа zork: читает zork.conf или zork.toml проекта,
// собирает из него командную строку компилятора C++ и запускает её.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovanwin/zork/internal/app"
	"github.com/vovanwin/zork/internal/generator"
	"github.com/vovanwin/zork/internal/model"
	"github.com/vovanwin/zork/internal/report"
)

const (
	Version = "0.1.0"
	appName = "zork"
)

// Коды выхода
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError ошибка в аргументах командной строки
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// globalFlags флаги корневой команды
type globalFlags struct {
	configPath string
	dir        string
	logLevel   string
	logFormat  string
}

func (g *globalFlags) newApp(stdout, stderr io.Writer, dryRun bool) *app.App {
	logger := app.NewLogger(g.logLevel, g.logFormat, stderr)
	return app.New(app.Options{
		Dir:        g.dir,
		ConfigPath: g.configPath,
		DryRun:     dryRun,
		Stdout:     stdout,
		Stderr:     stderr,
	}, logger)
}

// run выполняет CLI и возвращает код выхода процесса
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// код выхода компилятора, если до его запуска дошло
	childCode := 0

	root := rootCmd(stdout, stderr, &childCode)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var (
		uerr usageError
		errs report.Errors
	)
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", appName)
		return exitUsage
	case errors.As(err, &errs):
		fmt.Fprintln(stderr, errs.Error())
		return exitFailure
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if childCode > 0 {
			return childCode
		}
		return exitFailure
	}
}

// noArgs как cobra.NoArgs, но с кодом выхода для ошибок использования
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError{fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func rootCmd(stdout, stderr io.Writer, childCode *int) *cobra.Command {
	g := &globalFlags{}
	var dryRun bool

	build := func(cmd *cobra.Command, _ []string) error {
		code, err := g.newApp(stdout, stderr, dryRun).Build(cmd.Context())
		*childCode = code
		return err
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "C++ build system driven by zork.conf",
		Long: `zork reads the project configuration file (zork.conf or zork.toml),
validates it and generates the command line for the C++ compiler.

Without a subcommand zork builds the project.`,
		Args:          noArgs,
		RunE:          build,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Configuration file path (skips discovery)")
	pf.StringVarP(&g.dir, "dir", "D", ".", "Directory to start configuration discovery from")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the compiler command without running it")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project",
		Args:  noArgs,
		RunE:  build,
	}
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the compiler command without running it")

	cmd.AddCommand(
		buildCmd,
		checkCmd(g, stdout, stderr),
		commandsCmd(g, stdout, stderr),
		showCmd(g, stdout, stderr),
		newCmd(g, stdout, stderr),
		watchCmd(g, stdout, stderr),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  noArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func checkCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.newApp(stdout, stderr, false).Check()
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s: OK\n", p.ConfigPath)
			return nil
		},
	}
}

func commandsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the generated compiler command",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := g.newApp(stdout, stderr, true)
			p, err := a.Load()
			if err != nil {
				return err
			}
			vec, err := a.Command(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, vec.String())
			return nil
		},
	}
}

func showCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the parsed configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "yaml" && format != "json" {
				return usageError{fmt.Errorf("unknown format %q (yaml, json)", format)}
			}
			return g.newApp(stdout, stderr, true).Show(stdout, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json)")
	return cmd
}

func newCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	opts := generator.DefaultOptions()
	var compiler string

	cmd := &cobra.Command{
		Use:   "new [dir]",
		Short: "Create a project template",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseCompilerKind(compiler)
			if err != nil {
				return usageError{err}
			}
			opts.Compiler = kind

			dir := g.dir
			if len(args) == 1 {
				dir = args[0]
				if !cmd.Flags().Changed("name") {
					opts.Name = filepath.Base(dir)
				}
			}
			return g.newApp(stdout, stderr, false).NewProject(cmd.Context(), dir, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Name, "name", opts.Name, "Project and executable name")
	f.StringVar(&compiler, "compiler", opts.Compiler.String(), "Compiler (clang, gcc, msvc)")
	f.StringVar(&opts.Standard, "standard", opts.Standard, "C++ standard")
	f.StringVar(&opts.StdLib, "std-lib", opts.StdLib, "Standard library")
	f.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "Build output directory")
	f.StringVar(&opts.Format, "format", opts.Format, "Configuration format (conf, toml)")
	f.BoolVar(&opts.Git, "git", false, "Initialize a git repository")
	return cmd
}

func watchCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild on every change of the configuration or sources",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := g.newApp(stdout, stderr, false).Watch(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
