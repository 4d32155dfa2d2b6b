package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/vovanwin/zork/internal/model"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options настройки генерации шаблонного проекта
type Options struct {
	Name      string             // Имя проекта и исполняемого файла
	Compiler  model.CompilerKind // Компилятор в [#compiler]
	Standard  string             // cpp_standard
	StdLib    string             // std_lib
	OutputDir string             // output_dir
	Format    string             // "conf" или "toml"
	Git       bool               // Добавить .gitignore
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Name:      "hello",
		Compiler:  model.Clang,
		Standard:  "20",
		StdLib:    "libc++",
		OutputDir: "out",
		Format:    "conf",
	}
}

// templateData данные для шаблонов
type templateData struct {
	Name      string
	Compiler  string
	Standard  string
	StdLib    string
	OutputDir string
	Sources   []string
}

func newTemplateData(opts Options) templateData {
	return templateData{
		Name:      opts.Name,
		Compiler:  opts.Compiler.String(),
		Standard:  opts.Standard,
		StdLib:    opts.StdLib,
		OutputDir: opts.OutputDir,
		Sources:   []string{"src/main.cpp"},
	}
}

// templateFuncs возвращает функции для использования в шаблонах
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
	}
}

// render выполняет шаблон templates/<name>.tmpl
func render(name string, data templateData) ([]byte, error) {
	tmplB, err := templatesFS.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return nil, fmt.Errorf("чтение шаблона %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(string(tmplB))
	if err != nil {
		return nil, fmt.Errorf("парсинг шаблона %s: %w", name, err)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("выполнение шаблона %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
