package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		data    map[string]any
		want    string
		missing []string
	}{
		{"single token", "<% title %>", map[string]any{"title": "Hi"}, "Hi", nil},
		{"repeated token", "<% x %> <% x %>", map[string]any{"x": "Z"}, "Z Z", nil},
		{"no whitespace", "Hello <%name%>!", map[string]any{"name": "World"}, "Hello World!", nil},
		{"no tokens", "plain <html>", map[string]any{"a": "b"}, "plain <html>", nil},
		{"missing key", "[<% gone %>]", map[string]any{}, "[]", []string{"gone"}},
		{"nil data", "<% a %><% b %>", nil, "", []string{"a", "b"}},
		{"empty token is literal", "<%%>", map[string]any{"": "x"}, "<%%>", nil},
		{"multiline is literal", "<% a\n %>", map[string]any{"a": "x"}, "<% a\n %>", nil},
		{"shortest match", "<% a %>%>", map[string]any{"a": "x"}, "x%>", nil},
		{"number", "<% n %>/<% f %>", map[string]any{"n": float64(42), "f": 1.5}, "42/1.5", nil},
		{"yaml int", "<% n %>", map[string]any{"n": 7}, "7", nil},
		{"bool and null", "<% b %> <% z %>", map[string]any{"b": true, "z": nil}, "true null", nil},
		{"nested value", "<% o %>", map[string]any{"o": map[string]any{"k": []any{"v"}}}, `{"k":["v"]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := Render(tt.text, tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

// Substitution is a single pass over the template text: token text that
// arrives inside a substituted value is emitted literally, even when the same
// token appears later in the template.
func TestRender_SinglePassKeepsTokenTextFromValues(t *testing.T) {
	data := map[string]any{"a": "<% b %>", "b": "oops"}

	got, missing := Render("<% a %> <% b %>", data)
	assert.Equal(t, "<% b %> oops", got)
	assert.Empty(t, missing)

	got, missing = Render("<% a %><% b %>", data)
	assert.Equal(t, "<% b %>oops", got)
	assert.Empty(t, missing)

	got, missing = Render("<% a %>", data)
	assert.Equal(t, "<% b %>", got)
	assert.Empty(t, missing)
}

func TestRender_EachTokenLookedUpOnce(t *testing.T) {
	got, missing := Render("<% x %>-<% x %>-<% x %>", map[string]any{})
	assert.Equal(t, "--", got)
	assert.Equal(t, []string{"x"}, missing)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1000000", FormatValue(float64(1e6)))
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "-3", FormatValue(float64(-3)))
	assert.Equal(t, "false", FormatValue(false))
	assert.Equal(t, `["a",1]`, FormatValue([]any{"a", float64(1)}))
}
