// Package generator создаёт шаблонный C++ проект с конфигурационным файлом.
package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// projectFile файл шаблонного проекта: путь -> имя шаблона
type projectFile struct {
	path     string
	template string
}

func projectFiles(opts Options) []projectFile {
	files := []projectFile{
		{path: "zork.conf", template: "zork.conf"},
		{path: filepath.Join("src", "main.cpp"), template: "main.cpp"},
	}
	if opts.Format == "toml" {
		files[0] = projectFile{path: "zork.toml", template: "zork.toml"}
	}
	if opts.Git {
		files = append(files, projectFile{path: ".gitignore", template: "gitignore"})
	}
	return files
}

// Init создаёт файлы проекта в dir. Существующие файлы не перезаписываются.
// Возвращает пути созданных файлов.
func Init(dir string, opts Options, out io.Writer) ([]string, error) {
	def := DefaultOptions()
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.Standard == "" {
		opts.Standard = def.Standard
	}
	if opts.StdLib == "" {
		opts.StdLib = def.StdLib
	}
	if opts.OutputDir == "" {
		opts.OutputDir = def.OutputDir
	}
	if opts.Format == "" {
		opts.Format = def.Format
	}
	if opts.Format != "conf" && opts.Format != "toml" {
		return nil, fmt.Errorf("неизвестный формат %q (допустимы: conf, toml)", opts.Format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание директории %s: %w", dir, err)
	}

	data := newTemplateData(opts)
	var created []string
	for _, f := range projectFiles(opts) {
		path := filepath.Join(dir, f.path)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "  skip: %s (already exists)\n", f.path)
			continue
		}

		content, err := render(f.template, data)
		if err != nil {
			return created, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return created, fmt.Errorf("создание директории %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return created, fmt.Errorf("запись %s: %w", f.path, err)
		}
		fmt.Fprintf(out, "  created: %s\n", f.path)
		created = append(created, path)
	}

	return created, nil
}
