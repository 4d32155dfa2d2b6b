// Package report описывает ошибки разбора и валидации конфигурационного файла.
//
// Ошибки не прерывают разбор: они накапливаются в Errors и показываются
// пользователю одним отчётом.
package report

import (
	"fmt"
	"strings"
)

// Kind тип ошибки валидации
type Kind int

const (
	DuplicateAttribute Kind = iota
	MissingMandatorySection
	MissingMandatoryProperty
	UnknownSection
	UnknownProperty
	InvalidPropertyValue
	MalformedLine
)

func (k Kind) String() string {
	switch k {
	case DuplicateAttribute:
		return "DuplicateAttribute"
	case MissingMandatorySection:
		return "MissingMandatorySection"
	case MissingMandatoryProperty:
		return "MissingMandatoryProperty"
	case UnknownSection:
		return "UnknownSection"
	case UnknownProperty:
		return "UnknownProperty"
	case InvalidPropertyValue:
		return "InvalidPropertyValue"
	case MalformedLine:
		return "MalformedLine"
	default:
		return "unknown"
	}
}

// Error одна найденная проблема. Заполнены только поля, имеющие смысл для Kind.
type Error struct {
	Kind     Kind
	Line     int      // 1-based; 0 означает ошибку всего файла
	Section  string   // секция, в которой найдена проблема
	Property string   // имя свойства
	Value    string   // значение свойства (InvalidPropertyValue)
	Names    []string // списки для Missing*
	Raw      string   // исходная строка (MalformedLine)
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case DuplicateAttribute:
		if e.Property != "" {
			msg = fmt.Sprintf("%s is already defined in the %s attribute", e.Property, e.Section)
		} else {
			msg = fmt.Sprintf("%s is already defined in the file", e.Section)
		}
	case MissingMandatorySection:
		msg = missing("Attribute", "Attributes", e.Names) + " present in the config file"
	case MissingMandatoryProperty:
		msg = missing("Property", "Properties", e.Names) +
			fmt.Sprintf(" present for the %s attribute", e.Section)
	case UnknownSection:
		msg = fmt.Sprintf("%s is an unknown or unsupported attribute", e.Section)
	case UnknownProperty:
		if e.Section == "" {
			msg = fmt.Sprintf("%s is declared outside of any attribute", e.Property)
		} else {
			msg = fmt.Sprintf("%s is an unknown or unsupported property for the %s attribute", e.Property, e.Section)
		}
	case InvalidPropertyValue:
		msg = fmt.Sprintf("<%s> is an unknown or unsupported value for the <%s> property", e.Value, e.Property)
	case MalformedLine:
		msg = fmt.Sprintf("not a valid sentence or format error: %q", e.Raw)
	default:
		msg = "unknown error"
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// missing формирует "Attributes: a, b, which are mandatory, aren't".
func missing(singular, plural string, names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("%s: %s, which is mandatory, isn't", singular, names[0])
	}
	return fmt.Sprintf("%s: %s, which are mandatory, aren't", plural, strings.Join(names, ", "))
}

// Errors упорядоченный список ошибок одного файла
type Errors []*Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no errors"
	case 1:
		return es[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d problems found in the configuration file:", len(es))
	for _, e := range es {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Has сообщает, есть ли в списке ошибка указанного типа
func (es Errors) Has(k Kind) bool {
	for _, e := range es {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// OfKind возвращает ошибки указанного типа в исходном порядке
func (es Errors) OfKind(k Kind) Errors {
	var out Errors
	for _, e := range es {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Err возвращает nil для пустого списка, чтобы не получить ненулевой error
// с пустым срезом внутри.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
