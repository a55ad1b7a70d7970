package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject_Fenced(t *testing.T) {
	text := "Sure, I'll delegate.\n```json\n{\"action\":\"spawn_and_task\",\"role\":\"web-searcher\",\"task\":\"find x\"}\n```\nDone."

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"action":"spawn_and_task","role":"web-searcher","task":"find x"}`, string(raw))
}

func TestExtractObject_InlineWithProse(t *testing.T) {
	text := `The parsed command is {"action":"KILL_AGENT","target":"agent-1"} as requested.`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"action":"KILL_AGENT","target":"agent-1"}`, string(raw))
}

func TestExtractObject_NestedAndStrings(t *testing.T) {
	text := `prefix {"a":{"b":"close } brace in string"},"c":1} suffix {"second":true}`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":{"b":"close } brace in string"},"c":1}`, string(raw))
}

func TestExtractObject_None(t *testing.T) {
	_, ok := ExtractObject("no json here, just prose")
	assert.False(t, ok)
}

func TestParseSpawn(t *testing.T) {
	d, ok := ParseSpawn("```json\n{\"action\":\"spawn_and_task\",\"role\":\"analyst\",\"task\":\"compare options\"}\n```")
	require.True(t, ok)
	assert.Equal(t, "analyst", d.Role)
	assert.Equal(t, "compare options", d.Task)
}

func TestParseSpawn_Lenient(t *testing.T) {
	cases := map[string]string{
		"wrong action":   `{"action":"do_something_else","role":"analyst","task":"t"}`,
		"missing role":   `{"action":"spawn_and_task","task":"t"}`,
		"missing task":   `{"action":"spawn_and_task","role":"analyst"}`,
		"broken json":    `{"action":"spawn_and_task","role":`,
		"plain response": "I can answer that directly: the result is 42.",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseSpawn(text)
			assert.False(t, ok)
		})
	}
}

func TestStripFenced(t *testing.T) {
	text := "I'll spawn a searcher.\n```json\n{\"action\":\"spawn_and_task\"}\n```\nStand by."

	assert.Equal(t, "I'll spawn a searcher.\n\nStand by.", StripFenced(text))
	assert.Equal(t, "plain text", StripFenced("plain text"))
}
