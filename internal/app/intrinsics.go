package app

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovanwin/zork/internal/model"
)

//go:embed intrinsics/std.h intrinsics/zork.modulemap
var intrinsicsFS embed.FS

// intrinsicFiles файлы, которые Clang-сборка кладёт в <out>/zork/intrinsics
var intrinsicFiles = []string{"std.h", "zork.modulemap"}

// IntrinsicsDir директория служебных файлов zork внутри out
func (p *Project) IntrinsicsDir() string {
	return filepath.Join(p.OutputDir(), "zork", "intrinsics")
}

// writeIntrinsics записывает std.h и zork.modulemap. Только для Clang,
// остальным компиляторам они не нужны.
func writeIntrinsics(p *Project) error {
	if p.Config.Compiler.Kind != model.Clang {
		return nil
	}
	for _, name := range intrinsicFiles {
		b, err := intrinsicsFS.ReadFile("intrinsics/" + name)
		if err != nil {
			return fmt.Errorf("чтение %s: %w", name, err)
		}
		path := filepath.Join(p.IntrinsicsDir(), name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("запись %s: %w", path, err)
		}
	}
	return nil
}
