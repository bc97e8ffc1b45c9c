package templates

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Token delimiters.
const (
	OpenDelim  = "<%"
	CloseDelim = "%>"
)

// tokenPattern matches the shortest <% ... %> run on a single line.
var tokenPattern = regexp.MustCompile(`<%(.+?)%>`)

// Render replaces every <% key %> token in text with the formatted value of
// data[key] (surrounding whitespace in the key is ignored). The scan is a
// single left-to-right pass: substituted values are copied to the output as
// is and never scanned for tokens. Each distinct token is looked up once and
// every occurrence reuses that result. Keys absent from data render as the
// empty string and are returned, in first-seen order, as unresolved.
func Render(text string, data map[string]any) (string, []string) {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	resolved := make(map[string]string, len(matches))
	var unresolved []string
	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		token := text[m[0]:m[1]]
		value, seen := resolved[token]
		if !seen {
			key := strings.TrimSpace(text[m[2]:m[3]])
			v, ok := data[key]
			if ok {
				value = FormatValue(v)
			} else {
				unresolved = append(unresolved, key)
			}
			resolved[token] = value
		}
		b.WriteString(value)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), unresolved
}

// FormatValue renders a page-data value as substitution text. Strings are
// verbatim, numbers use the shortest decimal form and objects or lists are
// compact JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		out, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(out)
	}
}
