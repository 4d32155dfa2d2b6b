// Package sources раскрывает glob-шаблоны в списке исходников проекта.
package sources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch шаблон не совпал ни с одним файлом
var ErrNoMatch = errors.New("no files match pattern")

// Expand раскрывает шаблоны (src/*.cpp, src/**/*.cppm) относительно baseDir.
// Обычные пути остаются как есть и на своих местах, совпадения одного
// шаблона сортируются. Повторы выбрасываются, первое вхождение остаётся.
func Expand(baseDir string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !HasMeta(pattern) {
			add(pattern)
			continue
		}

		matches, err := glob(baseDir, pattern)
		if err != nil {
			return nil, fmt.Errorf("шаблон %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func glob(baseDir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}

// HasMeta сообщает, содержит ли строка метасимволы glob
func HasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
