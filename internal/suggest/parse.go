package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema is the minimum shape a model reply must have. Numeric fields
// are left unconstrained so they can be coerced or dropped one by one.
const responseSchema = `{
	"type": "object",
	"required": ["exercise", "reason"],
	"properties": {
		"exercise": {"type": "string", "minLength": 1},
		"reason": {"type": "string", "minLength": 1}
	}
}`

var compiledSchema = mustCompileSchema(responseSchema)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compiling suggestion schema: %v", err))
	}
	return schema
}

// ParseSuggestion decodes a model reply into a Suggestion. The reply must be a JSON
// object with non-empty exercise and reason strings. sets, reps and duration are
// coerced to non-negative integers; any that cannot be coerced are dropped.
func ParseSuggestion(content string) (Suggestion, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return Suggestion{}, fmt.Errorf("decoding content: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Suggestion{}, fmt.Errorf("invalid suggestion: %s", strings.Join(msgs, "; "))
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Suggestion{}, fmt.Errorf("decoding content: %w", err)
	}

	s := Suggestion{
		Exercise: raw["exercise"].(string),
		Reason:   raw["reason"].(string),
	}
	s.Sets = coerceField(raw, "sets")
	s.Reps = coerceField(raw, "reps")
	s.Duration = coerceField(raw, "duration")
	return s, nil
}

func coerceField(raw map[string]any, key string) *int {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	n, ok := coerceInt(v)
	if !ok {
		return nil
	}
	return &n
}

// coerceInt accepts JSON numbers (fractions truncated), integer strings and booleans.
func coerceInt(v any) (int, bool) {
	var n int64
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = i
			break
		}
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		n = int64(math.Trunc(f))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	case bool:
		if t {
			n = 1
		}
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
