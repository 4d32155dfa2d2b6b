// Package parser валидирует конфигурационный файл по схеме и строит из него
// типизированную модель.
package parser

import (
	"fmt"
	"os"
	"sort"

	"github.com/vovanwin/zork/internal/lexer"
	"github.com/vovanwin/zork/internal/model"
	"github.com/vovanwin/zork/internal/report"
)

// Parse разбирает текст файла name. Лексические ошибки и ошибки валидации
// объединяются в один отчёт, упорядоченный по номеру строки; ошибки уровня
// всего файла (Missing*) идут последними.
func Parse(name, text string) (*model.Config, report.Errors) {
	tokens, lexErrs := lexer.LexFile(name, text)
	cfg, valErrs := Validate(tokens)

	if len(lexErrs) == 0 {
		return cfg, valErrs
	}

	errs := append(lexErrs, valErrs...)
	sort.SliceStable(errs, func(i, j int) bool {
		return lineKey(errs[i]) < lineKey(errs[j])
	})
	return nil, errs
}

func lineKey(e *report.Error) int {
	if e.Line == 0 {
		return int(^uint(0) >> 1)
	}
	return e.Line
}

// ParseFile читает файл и разбирает его. Ошибка чтения возвращается как
// обычная error, ошибки содержимого возвращаются как report.Errors.
func ParseFile(path string) (*model.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла %s: %w", path, err)
	}

	cfg, errs := Parse(path, string(b))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}
