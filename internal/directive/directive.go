// Package directive implements lenient extraction of structured JSON
// instructions embedded in model-generated prose.
//
// Model replies are probabilistic text: a directive may arrive inside a
// fenced code block, inline between sentences, or not at all. Extraction is
// therefore modeled as a parser returning (value, ok) — "no directive
// present" is a normal outcome, never an error.
package directive

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractObject returns the first JSON object found in text. Fenced
// ```json blocks are preferred; otherwise the first balanced top-level
// {...} span is taken, tolerating surrounding prose. The returned bytes are
// not guaranteed to be valid JSON — callers unmarshal and judge.
func ExtractObject(text string) ([]byte, bool) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if candidate := strings.TrimSpace(m[1]); strings.HasPrefix(candidate, "{") {
			return []byte(candidate), true
		}
	}
	if span, ok := firstBalancedObject(text); ok {
		return []byte(span), true
	}
	return nil, false
}

// firstBalancedObject scans for the first top-level {...} span, tracking
// brace depth and skipping braces inside JSON string literals.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// SpawnDirective instructs the orchestrator to spawn an agent of the named
// role and hand it a task.
type SpawnDirective struct {
	Action string `json:"action"`
	Role   string `json:"role"`
	Task   string `json:"task"`
}

// spawnAction is the only directive action the coordinator understands.
const spawnAction = "spawn_and_task"

// ParseSpawn scans text for a well-formed spawn directive. Malformed or
// partially matched candidates are treated as "no directive": the text
// originates from a generator that may half-follow the format, and a lenient
// miss is preferable to a hard error.
func ParseSpawn(text string) (SpawnDirective, bool) {
	raw, ok := ExtractObject(text)
	if !ok {
		return SpawnDirective{}, false
	}
	var d SpawnDirective
	if err := json.Unmarshal(raw, &d); err != nil {
		return SpawnDirective{}, false
	}
	if d.Action != spawnAction || d.Role == "" || d.Task == "" {
		return SpawnDirective{}, false
	}
	return d, true
}

// StripFenced removes all fenced ```json blocks from text, returning the
// surrounding prose trimmed. Used to present a model reply without the
// machine-directed directive block.
func StripFenced(text string) string {
	return strings.TrimSpace(fencedJSON.ReplaceAllString(text, ""))
}
