// Package app связывает этапы сборки: поиск конфигурации, разбор,
// подготовку директорий, синтез команды и запуск компилятора.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/vovanwin/zork/internal/discovery"
	"github.com/vovanwin/zork/internal/invoke"
	"github.com/vovanwin/zork/internal/model"
	"github.com/vovanwin/zork/internal/parser"
	"github.com/vovanwin/zork/internal/schema"
	"github.com/vovanwin/zork/internal/sources"
	"github.com/vovanwin/zork/internal/toolchain"
)

// DefaultOutputDir директория сборки, когда output_dir не задан или равен "default"
const DefaultOutputDir = "out"

// Invoker запускает команду и ждёт её завершения
type Invoker interface {
	Run(ctx context.Context, dir string, cmd toolchain.CommandVector) (int, error)
}

// Options настройки запуска
type Options struct {
	Dir        string // директория, с которой начинается поиск конфигурации
	ConfigPath string // явный путь к конфигурации, поиск не выполняется
	DryRun     bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// App один запуск zork
type App struct {
	opts    Options
	logger  *slog.Logger
	invoker Invoker
}

// New создаёт App. Если logger nil, используется slog.Default().
func New(opts Options, logger *slog.Logger) *App {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		opts:   opts,
		logger: logger,
		invoker: &invoke.Runner{
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
			DryRun: opts.DryRun,
			Logger: logger,
		},
	}
}

// WithInvoker подменяет запуск процессов
func (a *App) WithInvoker(inv Invoker) *App {
	a.invoker = inv
	return a
}

// Project найденная и провалидированная конфигурация
type Project struct {
	ConfigPath string
	Root       string // директория конфигурационного файла
	Config     *model.Config
}

// OutputDir абсолютный путь к директории сборки
func (p *Project) OutputDir() string {
	dir := p.Config.Build.OutputDir
	if dir == "" || dir == schema.DefaultOutputDir {
		dir = DefaultOutputDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Root, dir)
}

// Load находит и разбирает конфигурацию. Ошибки валидации возвращаются
// одним значением report.Errors.
func (a *App) Load() (*Project, error) {
	path := a.opts.ConfigPath
	if path == "" {
		found, err := discovery.Find(a.opts.Dir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("путь %s: %w", path, err)
	}
	a.logger.Debug("Configuration file found", "path", abs)

	cfg, err := parser.ParseFile(abs)
	if err != nil {
		return nil, err
	}

	return &Project{ConfigPath: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// Command раскрывает шаблоны исходников и строит команду компилятора
func (a *App) Command(p *Project) (toolchain.CommandVector, error) {
	expanded, err := sources.Expand(p.Root, p.Config.Executable.Sources)
	if err != nil {
		return nil, err
	}

	// синтезируем по копии, Config проекта не меняется
	resolved := *p.Config
	resolved.Executable.Sources = expanded

	return toolchain.Synthesize(&resolved)
}

// Build выполняет полный цикл сборки и возвращает код выхода компилятора
func (a *App) Build(ctx context.Context) (int, error) {
	runID := uuid.New().String()
	logger := a.logger.With("run_id", runID)

	p, err := a.Load()
	if err != nil {
		return 1, err
	}
	if p.Config.HasSection(schema.Project) && p.Config.Project.Name != "" {
		logger = logger.With("project", p.Config.Project.Name)
	}
	logger.Info("Starting a new C++ compilation job",
		"config", p.ConfigPath,
		"compiler", p.Config.Compiler.Kind.String(),
		"standard", p.Config.Language.Standard)

	cmd, err := a.Command(p)
	if err != nil {
		return 1, err
	}

	if !a.opts.DryRun {
		if err := prepareOutput(p); err != nil {
			return 1, err
		}
		if prev, err := ReadCommandCache(p); err == nil && !slices.Equal(prev.Command, []string(cmd)) {
			logger.Info("Command line changed since last build", "previous_run_id", prev.RunID)
		}
		if err := writeCommandCache(p, runID, cmd); err != nil {
			// кэш команд вспомогательный, сборку не останавливаем
			logger.Warn("Failed to write command cache", "error", err)
		}
	}

	logger.Info("Command line generated", "command", cmd.String())
	code, err := a.invoker.Run(ctx, p.Root, cmd)
	if err != nil {
		return code, err
	}
	logger.Info("Build finished", "exit_code", code)
	return code, nil
}

// prepareOutput создаёт дерево директорий сборки:
// <out>/<compiler>/modules/{interfaces,implementations}, <out>/zork/{cache,intrinsics}
func prepareOutput(p *Project) error {
	out := p.OutputDir()
	modules := filepath.Join(out, p.Config.Compiler.Kind.String(), "modules")
	dirs := []string{
		filepath.Join(modules, "interfaces"),
		filepath.Join(modules, "implementations"),
		filepath.Join(out, "zork", "cache"),
		p.IntrinsicsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание директории %s: %w", dir, err)
		}
	}
	return writeIntrinsics(p)
}
