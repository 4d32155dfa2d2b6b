package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vovanwin/zork/internal/generator"
	"github.com/vovanwin/zork/internal/toolchain"
	"github.com/vovanwin/zork/internal/watch"
)

// Check только проверяет конфигурацию
func (a *App) Check() (*Project, error) {
	p, err := a.Load()
	if err != nil {
		return nil, err
	}
	a.logger.Info("Configuration is valid", "config", p.ConfigPath)
	return p, nil
}

// NewProject создаёт шаблонный проект в dir и, если нужно, git-репозиторий
func (a *App) NewProject(ctx context.Context, dir string, opts generator.Options) error {
	created, err := generator.Init(dir, opts, a.opts.Stdout)
	if err != nil {
		return err
	}
	a.logger.Info("Project template created", "dir", dir, "files", len(created))

	if opts.Git {
		if _, err := a.invoker.Run(ctx, dir, toolchain.CommandVector{"git", "init"}); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}
	return nil
}

// Watch собирает проект и пересобирает его после каждого изменения
// конфигурации или исходников, пока не отменён ctx.
func (a *App) Watch(ctx context.Context) error {
	p, err := a.Load()
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Root:       p.Root,
		ConfigFile: p.ConfigPath,
		Skip:       []string{p.OutputDir()},
		Logger:     a.logger,
	})
	if err != nil {
		return fmt.Errorf("запуск наблюдения: %w", err)
	}
	defer w.Close()

	rebuild := func(ctx context.Context) error {
		_, err := a.Build(ctx)
		return err
	}
	if err := rebuild(ctx); err != nil {
		a.logger.Error("Build failed", "error", err)
	}

	a.logger.Info("Watching for changes", "root", p.Root, "config", filepath.Base(p.ConfigPath))
	return w.Run(ctx, rebuild)
}
