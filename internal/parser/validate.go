package parser

import (
	"github.com/vovanwin/zork/internal/lexer"
	"github.com/vovanwin/zork/internal/model"
	"github.com/vovanwin/zork/internal/report"
	"github.com/vovanwin/zork/internal/schema"
)

// Validate сверяет поток токенов со схемой. Проверяются все токены,
// ошибки накапливаются. Возвращается либо Config, либо непустой список
// ошибок, но не оба сразу.
func Validate(tokens []lexer.Token) (*model.Config, report.Errors) {
	var (
		errs    report.Errors
		current *schema.Section
		unknown bool              // открыта неизвестная секция, её свойства пропускаем
		target  map[string]string // куда пишутся свойства текущего блока
	)
	seen := make(map[string]map[string]string)

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindSection:
			sec, ok := schema.Lookup(tok.Name)
			if !ok {
				errs = append(errs, &report.Error{Kind: report.UnknownSection, Line: tok.Line, Section: tok.Name})
				current, unknown, target = nil, true, nil
				continue
			}
			current, unknown = sec, false

			if _, dup := seen[sec.ID]; dup {
				errs = append(errs, &report.Error{Kind: report.DuplicateAttribute, Line: tok.Line, Section: sec.ID})
				// свойства повторного блока проверяются, но не сохраняются
				target = make(map[string]string)
				continue
			}
			target = make(map[string]string)
			seen[sec.ID] = target

		case lexer.KindProperty:
			if unknown {
				continue
			}
			if current == nil {
				errs = append(errs, &report.Error{Kind: report.UnknownProperty, Line: tok.Line, Property: tok.Key})
				continue
			}

			prop, ok := current.Property(tok.Key)
			if !ok {
				errs = append(errs, &report.Error{
					Kind:     report.UnknownProperty,
					Line:     tok.Line,
					Section:  current.ID,
					Property: tok.Key,
				})
				continue
			}
			if !prop.Accepts(tok.Value) {
				errs = append(errs, &report.Error{
					Kind:     report.InvalidPropertyValue,
					Line:     tok.Line,
					Section:  current.ID,
					Property: tok.Key,
					Value:    tok.Value,
				})
			}
			if _, dup := target[tok.Key]; dup {
				errs = append(errs, &report.Error{
					Kind:     report.DuplicateAttribute,
					Line:     tok.Line,
					Section:  current.ID,
					Property: tok.Key,
				})
				continue
			}
			target[tok.Key] = tok.Value
		}
	}

	var missing []string
	for _, id := range schema.Mandatory() {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, &report.Error{Kind: report.MissingMandatorySection, Names: missing})
	}

	for _, sec := range schema.Sections() {
		props, ok := seen[sec.ID]
		if !ok {
			continue
		}
		var absent []string
		for _, name := range sec.MandatoryProperties() {
			if _, ok := props[name]; !ok {
				absent = append(absent, name)
			}
		}
		if len(absent) > 0 {
			errs = append(errs, &report.Error{Kind: report.MissingMandatoryProperty, Section: sec.ID, Names: absent})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return Build(tokens), nil
}
