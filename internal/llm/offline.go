package llm

import (
	"fmt"
	"sort"
	"strings"
)

// NewOfflineProvider answers without a model: text prompts are echoed back
// with a notice and structured prompts get the smallest value their schema
// accepts. Used for LLM_PROVIDER=mock and local development.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.Handler = func(req Request) MockResponse {
		if req.Schema != nil {
			return JSONResponse(exampleFromSchema(req.Schema.Definition))
		}
		last := ""
		if n := len(req.Messages); n > 0 {
			last = req.Messages[n-1].Content
		}
		last = strings.TrimSpace(last)
		if r := []rune(last); len(r) > 400 {
			last = string(r[:400]) + "..."
		}
		return MockResponse{Text: "_Offline mode: no language model is configured._\n\n" + last}
	}
	return m
}

func exampleFromSchema(def map[string]any) any {
	if enum := stringList(def["enum"]); len(enum) > 0 {
		return enum[0]
	}
	t, _ := def["type"].(string)
	switch t {
	case "object":
		props, _ := def["properties"].(map[string]any)
		out := make(map[string]any, len(props))
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if p, ok := props[k].(map[string]any); ok {
				out[k] = exampleFromSchema(p)
			}
		}
		return out
	case "array":
		n := intOf(def["minItems"], 1)
		items, _ := def["items"].(map[string]any)
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v := exampleFromSchema(items)
			if s, ok := v.(string); ok {
				v = fmt.Sprintf("%s %d", s, i+1)
			}
			out = append(out, v)
		}
		return out
	case "integer":
		return intOf(def["minimum"], 0)
	case "number":
		return float64(intOf(def["minimum"], 0))
	case "boolean":
		return true
	default:
		return "offline"
	}
}

func intOf(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}
