package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSuggestionCoercesStrings verifies numeric strings become integers.
func TestParseSuggestionCoercesStrings(t *testing.T) {
	s, err := ParseSuggestion(`{"exercise": "Rowing", "reason": "cardio", "sets": "3"}`)
	require.NoError(t, err)
	assert.Equal(t, "Rowing", s.Exercise)
	assert.Equal(t, "cardio", s.Reason)
	require.NotNil(t, s.Sets)
	assert.Equal(t, 3, *s.Sets)
	assert.Nil(t, s.Reps)
	assert.Nil(t, s.Duration)
}

// TestParseSuggestionDropsBadNumbers verifies a field that cannot be coerced is
// dropped on its own without failing the whole suggestion.
func TestParseSuggestionDropsBadNumbers(t *testing.T) {
	s, err := ParseSuggestion(`{"exercise": "Rowing", "reason": "cardio", "sets": "abc", "reps": 12, "duration": [1]}`)
	require.NoError(t, err)
	assert.Equal(t, "Rowing", s.Exercise)
	assert.Nil(t, s.Sets)
	require.NotNil(t, s.Reps)
	assert.Equal(t, 12, *s.Reps)
	assert.Nil(t, s.Duration)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"integer", `{"exercise":"a","reason":"b","sets":4}`, 4, true},
		{"float truncates", `{"exercise":"a","reason":"b","sets":4.9}`, 4, true},
		{"padded string", `{"exercise":"a","reason":"b","sets":" 7 "}`, 7, true},
		{"true", `{"exercise":"a","reason":"b","sets":true}`, 1, true},
		{"false", `{"exercise":"a","reason":"b","sets":false}`, 0, true},
		{"decimal string", `{"exercise":"a","reason":"b","sets":"3.5"}`, 0, false},
		{"negative", `{"exercise":"a","reason":"b","sets":-2}`, 0, false},
		{"null", `{"exercise":"a","reason":"b","sets":null}`, 0, false},
		{"object", `{"exercise":"a","reason":"b","sets":{"n":1}}`, 0, false},
		{"huge", `{"exercise":"a","reason":"b","sets":1e12}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSuggestion(tt.input)
			require.NoError(t, err)
			if !tt.wantOK {
				assert.Nil(t, s.Sets)
				return
			}
			require.NotNil(t, s.Sets)
			assert.Equal(t, tt.want, *s.Sets)
		})
	}
}

// TestParseSuggestionRejects verifies malformed content and missing keys fail.
func TestParseSuggestionRejects(t *testing.T) {
	inputs := map[string]string{
		"not json":        `Sure! Try lunges.`,
		"truncated":       `{"exercise": "Lunges"`,
		"missing reason":  `{"exercise": "Lunges"}`,
		"missing both":    `{}`,
		"empty exercise":  `{"exercise": "", "reason": "x"}`,
		"non-string name": `{"exercise": 5, "reason": "x"}`,
		"array":           `[{"exercise": "Lunges", "reason": "x"}]`,
		"empty":           ``,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuggestion(in)
			assert.Error(t, err)
		})
	}
}
