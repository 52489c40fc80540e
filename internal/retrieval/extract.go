package retrieval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the span from the first '{' to the last '}' of text,
// compacted. The match is greedy: prose containing several objects yields
// everything between the outermost braces, which then fails to parse.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSONObject
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text[start:end+1])); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}
