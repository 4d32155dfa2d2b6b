// Package toolchain превращает провалидированную конфигурацию в командную
// строку конкретного драйвера компилятора.
package toolchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovanwin/zork/internal/model"
)

var (
	// ErrUnsupportedCompiler совпадает с любой UnsupportedCompilerError
	ErrUnsupportedCompiler = errors.New("unsupported compiler")
	// ErrNoExecutable в конфигурации нечего собирать
	ErrNoExecutable = errors.New("nothing to build")
)

// UnsupportedCompilerError компилятор, для которого нет построения команды
type UnsupportedCompilerError struct {
	Kind model.CompilerKind
}

func (e *UnsupportedCompilerError) Error() string {
	return fmt.Sprintf("компилятор %s пока не поддерживается", e.Kind)
}

func (e *UnsupportedCompilerError) Is(target error) bool {
	return target == ErrUnsupportedCompiler
}

// IncompleteExecutableError секция [#executable] не задаёт имя или исходники
type IncompleteExecutableError struct {
	Missing []string // executable_name и/или sources
}

func (e *IncompleteExecutableError) Error() string {
	return fmt.Sprintf("%s: в секции [#executable] не задано: %s", ErrNoExecutable, strings.Join(e.Missing, ", "))
}

func (e *IncompleteExecutableError) Is(target error) bool {
	return target == ErrNoExecutable
}

// CommandVector аргументы одного запуска компилятора; первый элемент
// задаёт исполняемый файл.
type CommandVector []string

// Name исполняемый файл
func (c CommandVector) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args аргументы без исполняемого файла
func (c CommandVector) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

func (c CommandVector) String() string {
	return strings.Join(c, " ")
}

// Synthesize строит командную строку для cfg. Результат зависит только от cfg.
// Неподдерживаемый компилятор проверяется раньше, чем полнота [#executable].
func Synthesize(cfg *model.Config) (CommandVector, error) {
	switch cfg.Compiler.Kind {
	case model.Clang:
		if err := checkExecutable(cfg.Executable); err != nil {
			return nil, err
		}
		return clang(cfg), nil
	case model.GCC, model.MSVC:
		return nil, &UnsupportedCompilerError{Kind: cfg.Compiler.Kind}
	default:
		return nil, &UnsupportedCompilerError{Kind: cfg.Compiler.Kind}
	}
}

func checkExecutable(exe model.Executable) error {
	var missing []string
	if exe.Name == "" {
		missing = append(missing, "executable_name")
	}
	if len(exe.Sources) == 0 {
		missing = append(missing, "sources")
	}
	if len(missing) > 0 {
		return &IncompleteExecutableError{Missing: missing}
	}
	return nil
}

func clang(cfg *model.Config) CommandVector {
	args := make(CommandVector, 0, 6+len(cfg.Executable.Sources))
	args = append(args,
		model.Clang.Executable(),
		"--std=c++"+strings.ToLower(cfg.Language.Standard),
		"-stdlib="+cfg.Language.StdLib,
	)
	if cfg.Language.ModulesSupport {
		args = append(args, "-fmodules")
	}
	args = append(args, "-o", cfg.Executable.Name)
	args = append(args, cfg.Executable.Sources...)
	return args
}
