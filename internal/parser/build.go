package parser

import (
	"strings"

	"github.com/vovanwin/zork/internal/lexer"
	"github.com/vovanwin/zork/internal/model"
	"github.com/vovanwin/zork/internal/schema"
)

// Build собирает Config из уже провалидированных токенов. Повторно
// объявленные секции и свойства игнорируются: побеждает первое вхождение.
func Build(tokens []lexer.Token) *model.Config {
	sections := make(map[string]map[string]string)
	// элементы свойств-списков: секция -> свойство -> элементы
	lists := make(map[string]map[string][]string)

	var (
		target  map[string]string
		current string
	)
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindSection:
			if _, dup := sections[tok.Name]; dup {
				target = nil
				continue
			}
			current = tok.Name
			target = make(map[string]string)
			sections[current] = target
			lists[current] = make(map[string][]string)
		case lexer.KindProperty:
			if target == nil {
				continue
			}
			if _, dup := target[tok.Key]; !dup {
				target[tok.Key] = tok.Value
				lists[current][tok.Key] = tok.List()
			}
		}
	}

	cfg := model.NewConfig(sections)

	project := sections[schema.Project]
	cfg.Project = model.Project{
		Name:         project["project_name"],
		AutoGenerate: isTrue(valueOr(project, schema.Project, "auto_generate")),
	}

	raw := sections[schema.Compiler]["cpp_compiler"]
	kind, _ := model.ParseCompilerKind(raw)
	cfg.Compiler = model.Compiler{Kind: kind, Raw: raw}

	lang := sections[schema.Language]
	cfg.Language = model.Language{
		Standard:       lang["cpp_standard"],
		StdLib:         valueOr(lang, schema.Language, "std_lib"),
		ModulesSupport: isTrue(valueOr(lang, schema.Language, "cpp_modules_support")),
	}

	cfg.Build = model.Build{
		OutputDir: valueOr(sections[schema.Build], schema.Build, "output_dir"),
	}

	exe := sections[schema.Executable]
	cfg.Executable = model.Executable{
		Name:    exe["executable_name"],
		Sources: lists[schema.Executable]["sources"],
	}

	return cfg
}

// valueOr возвращает значение свойства или его значение по умолчанию из схемы
func valueOr(props map[string]string, section, name string) string {
	if v, ok := props[name]; ok {
		return v
	}
	if sec, ok := schema.Lookup(section); ok {
		if p, ok := sec.Property(name); ok {
			return p.Default
		}
	}
	return ""
}

func isTrue(s string) bool {
	return strings.EqualFold(s, "true")
}
