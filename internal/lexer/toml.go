package lexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vovanwin/zork/internal/report"
)

// LexTOML превращает zork.toml в тот же поток токенов, что и Lex:
// таблицы становятся секциями, ключи становятся свойствами. Порядок ключей
// сохраняется. У токенов Line = 0.
func LexTOML(text string) ([]Token, report.Errors) {
	var root map[string]any
	md, err := toml.Decode(text, &root)
	if err != nil {
		e := &report.Error{Kind: report.MalformedLine, Raw: err.Error()}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			e.Line = perr.Position.Line
			e.Raw = perr.Message
		}
		return nil, report.Errors{e}
	}

	var tokens []Token
	for _, key := range md.Keys() {
		val := lookup(root, key)
		if _, isTable := val.(map[string]any); isTable {
			if len(key) == 1 {
				tokens = append(tokens, Token{Kind: KindSection, Name: key[0], Raw: "[" + key[0] + "]"})
			}
			continue
		}

		name := key[len(key)-1]
		if len(key) > 2 {
			name = strings.Join(key[1:], ".")
		}
		value := tomlValue(val)
		tok := Token{
			Kind:  KindProperty,
			Key:   name,
			Value: value,
			Raw:   fmt.Sprintf("%s = %s", key.String(), value),
		}
		if arr, ok := val.([]any); ok {
			tok.Items = make([]string, 0, len(arr))
			for _, item := range arr {
				tok.Items = append(tok.Items, tomlValue(item))
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func lookup(root map[string]any, key toml.Key) any {
	var cur any = root
	for _, part := range key {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func tomlValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, tomlValue(item))
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprint(v)
	}
}
