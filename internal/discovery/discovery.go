// Package discovery ищет конфигурационный файл проекта.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileNames имена конфигурационных файлов в порядке поиска
var FileNames = []string{"zork.conf", "zork.toml"}

// ErrConfigurationFileNotFound ни в одной директории пути поиска нет конфигурации
var ErrConfigurationFileNotFound = errors.New("configuration file not found")

// Find ищет конфигурацию в start, затем в каждом из родителей вплоть до
// корня файловой системы. Возвращает абсолютный путь первого найденного файла.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("путь %s: %w", start, err)
	}

	for {
		if path, ok := configIn(dir); ok {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w (searched from %s)", ErrConfigurationFileNotFound, start)
}

// configIn проверяет одну директорию; директории с именем zork.conf не считаются
func configIn(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
