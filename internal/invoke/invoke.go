// Package invoke запускает процесс компилятора и дожидается его завершения.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/agilira/orpheus/pkg/orpheus"

	"github.com/vovanwin/zork/internal/toolchain"
)

// Runner запускает CommandVector. Нулевое значение пишет вывод процесса
// в stdout/stderr текущего процесса.
type Runner struct {
	Stdout io.Writer // по умолчанию os.Stdout
	Stderr io.Writer // по умолчанию os.Stderr
	DryRun bool      // только напечатать команду
	Logger *slog.Logger
}

// Run запускает команду в директории dir (пустая означает текущую) и блокируется
// до её завершения. Возвращает код выхода процесса; при ненулевом коде
// ошибка тоже не nil. Если процесс не удалось запустить, код равен -1.
func (r *Runner) Run(ctx context.Context, dir string, cmd toolchain.CommandVector) (int, error) {
	if len(cmd) == 0 {
		return -1, fmt.Errorf("пустая команда")
	}

	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if r.DryRun {
		fmt.Fprintf(stdout, "[DRY RUN] Would execute: %s\n", cmd)
		return 0, nil
	}

	logger.Info("Running command", "command", cmd.String(), "dir", dir)

	// #nosec G204 - команда собрана из провалидированной конфигурации
	c := exec.CommandContext(ctx, cmd.Name(), cmd.Args()...)
	c.Dir = dir
	c.Stdout = stdout
	c.Stderr = stderr

	if err := c.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return -1, orpheus.NotFoundError(cmd.Name(), fmt.Sprintf("executable '%s' not found", cmd.Name()))
		}
		return -1, orpheus.ExecutionError(cmd.Name(), err.Error())
	}

	err := c.Wait()
	if err == nil {
		logger.Debug("Command finished", "exit_code", 0)
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		logger.Warn("Command failed", "exit_code", code)
		return code, orpheus.ExecutionError(cmd.Name(), fmt.Sprintf("exited with status %d", code))
	}
	return -1, orpheus.ExecutionError(cmd.Name(), err.Error())
}
