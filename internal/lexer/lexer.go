// Package lexer разбивает текст конфигурационного файла на заголовки секций
// и строки свойств.
package lexer

import (
	"bufio"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vovanwin/zork/internal/report"
)

// Kind тип токена
type Kind int

const (
	KindSection Kind = iota
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Token одна классифицированная строка файла
type Token struct {
	Kind  Kind
	Line  int      // номер строки, начиная с 1; 0 если позиция неизвестна
	Name  string   // идентификатор секции (KindSection)
	Key   string   // имя свойства (KindProperty)
	Value string   // значение свойства как в файле
	Items []string // элементы, если значение пришло массивом (TOML)
	Raw   string   // исходная строка
}

var (
	// [#compiler] или [#compiler] <mandatory_section>
	sectionRe = regexp.MustCompile(`^\[#([A-Za-z_][A-Za-z0-9_]*)\]\s*(?:<[^>]*>)?$`)
	// cpp_compiler: clang
	propertyRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*:\s*(\S.*)$`)
)

// Lex классифицирует строки текста. Пустые строки и комментарии (///! или #)
// пропускаются. Строки, не подходящие ни под один шаблон, попадают в список
// ошибок MalformedLine, разбор при этом продолжается.
func Lex(text string) ([]Token, report.Errors) {
	var (
		tokens []Token
		errs   report.Errors
	)

	// строки читаются целиком, без ограничения на длину
	reader := bufio.NewReader(strings.NewReader(text))
	line := 0
	for {
		raw, err := reader.ReadString('\n')
		if raw == "" && err != nil {
			break
		}
		line++
		raw = strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "" || isComment(trimmed):
		case sectionRe.MatchString(trimmed):
			match := sectionRe.FindStringSubmatch(trimmed)
			tokens = append(tokens, Token{Kind: KindSection, Line: line, Name: match[1], Raw: raw})
		case propertyRe.MatchString(trimmed):
			match := propertyRe.FindStringSubmatch(trimmed)
			tokens = append(tokens, Token{
				Kind:  KindProperty,
				Line:  line,
				Key:   match[1],
				Value: strings.TrimSpace(match[2]),
				Raw:   raw,
			})
		default:
			errs = append(errs, &report.Error{Kind: report.MalformedLine, Line: line, Raw: raw})
		}

		if err != nil {
			break
		}
	}

	return tokens, errs
}

func isComment(s string) bool {
	return strings.HasPrefix(s, "///!") || strings.HasPrefix(s, "#")
}

// LexFile выбирает формат по имени файла: .toml разбирается как TOML,
// всё остальное разбирается построчным форматом zork.conf.
func LexFile(name, text string) ([]Token, report.Errors) {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return LexTOML(text)
	}
	return Lex(text)
}

// List возвращает значение свойства-списка: элементы массива TOML как есть,
// иначе Value, разбитое по запятым.
func (t Token) List() []string {
	if t.Items != nil {
		return t.Items
	}
	return SplitList(t.Value)
}

// SplitList разбивает значение-список "a.cpp, b.cpp" с сохранением порядка
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
