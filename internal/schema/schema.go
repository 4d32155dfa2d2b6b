// Package schema статическая таблица известных секций конфигурации и их
// свойств. Заполняется при инициализации пакета и дальше не меняется.
package schema

import "strings"

// Идентификаторы секций
const (
	Project    = "project"
	Compiler   = "compiler"
	Language   = "language"
	Build      = "build"
	Executable = "executable"
)

// Значения по умолчанию для необязательных свойств
const (
	DefaultStdLib         = "libc++"
	DefaultModulesSupport = "false"
	DefaultOutputDir      = "default"
)

// Property одно допустимое свойство секции
type Property struct {
	Name      string
	Mandatory bool
	Allowed   []string // nil: любое значение
	Default   string
	List      bool // значение является списком через запятую
}

// Accepts сообщает, допустимо ли значение. Перечисления сравниваются
// без учёта регистра.
func (p *Property) Accepts(value string) bool {
	if p.Allowed == nil {
		return true
	}
	for _, a := range p.Allowed {
		if strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

// Section описание блока [#section]
type Section struct {
	ID         string
	Mandatory  bool
	Properties []*Property
}

// Property ищет свойство по имени
func (s *Section) Property(name string) (*Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// MandatoryProperties имена обязательных свойств в порядке объявления
func (s *Section) MandatoryProperties() []string {
	var out []string
	for _, p := range s.Properties {
		if p.Mandatory {
			out = append(out, p.Name)
		}
	}
	return out
}

var boolean = []string{"true", "false"}

var sections = []*Section{
	{
		ID: Project,
		Properties: []*Property{
			{Name: "auto_generate", Allowed: boolean, Default: "false"},
			{Name: "project_name"},
		},
	},
	{
		ID:        Compiler,
		Mandatory: true,
		Properties: []*Property{
			{Name: "cpp_compiler", Mandatory: true, Allowed: []string{"clang", "gcc", "g++", "msvc"}},
		},
	},
	{
		ID:        Language,
		Mandatory: true,
		Properties: []*Property{
			{Name: "cpp_standard", Mandatory: true, Allowed: []string{"11", "14", "17", "20", "2a", "2b"}},
			{Name: "std_lib", Default: DefaultStdLib},
			{Name: "cpp_modules_support", Allowed: boolean, Default: DefaultModulesSupport},
		},
	},
	{
		ID: Build,
		Properties: []*Property{
			{Name: "output_dir", Default: DefaultOutputDir},
		},
	},
	{
		ID: Executable,
		Properties: []*Property{
			{Name: "executable_name", Mandatory: true},
			{Name: "sources", Mandatory: true, List: true},
		},
	},
}

var byID = func() map[string]*Section {
	m := make(map[string]*Section, len(sections))
	for _, s := range sections {
		m[s.ID] = s
	}
	return m
}()

// Lookup возвращает секцию с идентификатором id
func Lookup(id string) (*Section, bool) {
	s, ok := byID[id]
	return s, ok
}

// Sections возвращает все секции в порядке объявления. Срез копируется,
// сами секции менять нельзя.
func Sections() []*Section {
	out := make([]*Section, len(sections))
	copy(out, sections)
	return out
}

// Mandatory идентификаторы обязательных секций в порядке объявления
func Mandatory() []string {
	var out []string
	for _, s := range sections {
		if s.Mandatory {
			out = append(out, s.ID)
		}
	}
	return out
}
