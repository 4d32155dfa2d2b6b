package model

import (
	"fmt"
	"strings"
)

// CompilerKind представляет поддерживаемый компилятор C++
type CompilerKind int

const (
	Clang CompilerKind = iota
	GCC
	MSVC
)

func (k CompilerKind) String() string {
	switch k {
	case Clang:
		return "clang"
	case GCC:
		return "gcc"
	case MSVC:
		return "msvc"
	default:
		return "unknown"
	}
}

// Executable имя исполняемого файла драйвера компилятора
func (k CompilerKind) Executable() string {
	switch k {
	case Clang:
		return "clang"
	case GCC:
		return "g++"
	case MSVC:
		return "cl"
	default:
		return ""
	}
}

// ParseCompilerKind разбирает значение cpp_compiler без учёта регистра
func ParseCompilerKind(s string) (CompilerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clang":
		return Clang, nil
	case "gcc", "g++":
		return GCC, nil
	case "msvc":
		return MSVC, nil
	default:
		return 0, fmt.Errorf("неизвестный компилятор %q", s)
	}
}

// Project секция [#project]
type Project struct {
	Name         string
	AutoGenerate bool
}

// Compiler секция [#compiler]
type Compiler struct {
	Kind CompilerKind
	Raw  string // значение cpp_compiler как в файле
}

// Language секция [#language]
type Language struct {
	Standard       string
	StdLib         string
	ModulesSupport bool
}

// Build секция [#build]
type Build struct {
	OutputDir string
}

// Executable секция [#executable]
type Executable struct {
	Name    string
	Sources []string
}

// Config провалидированная конфигурация проекта. Заполняется парсером после
// успешной валидации. Поля открыты для чтения; код, которому нужна изменённая
// версия (например, с раскрытыми шаблонами исходников), работает с копией.
// Сырые значения доступны только через Sections и HasSection.
type Config struct {
	Project    Project
	Compiler   Compiler
	Language   Language
	Build      Build
	Executable Executable

	// sections сырые значения: секция -> свойство -> значение
	sections map[string]map[string]string
}

// NewConfig создаёт Config, запоминая сырой вид секций
func NewConfig(sections map[string]map[string]string) *Config {
	return &Config{sections: sections}
}

// Sections возвращает копию сырых значений, сгруппированных по секциям,
// ровно в том виде, в каком они были в файле.
func (c *Config) Sections() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.sections))
	for id, props := range c.sections {
		cp := make(map[string]string, len(props))
		for k, v := range props {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// HasSection сообщает, была ли секция объявлена в файле
func (c *Config) HasSection(id string) bool {
	_, ok := c.sections[id]
	return ok
}
