package hooks

import (
	"encoding/json"
	"strings"

	"github.com/itchyny/gojq"
)

const (
	fieldTruncate   = 100
	summaryTruncate = 200
)

// priorityFieldsQuery pulls the fields spec.md calls out, in priority
// order, dropping anything absent or non-string.
var priorityFieldsQuery = mustParseQuery(
	`[.command, .query, .prompt, .file_path, .pattern, .url, .description, .task_id, .skill, .content] | map(select(. != null))`,
)

func mustParseQuery(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(err)
	}
	return code
}

// SummarizeToolInput extracts a best-effort, comma-joined summary of a
// tool_input payload: priority fields truncated to 100 chars each,
// joined with commas, the whole thing capped at 200 chars. Malformed
// or empty input yields an empty summary rather than an error — this
// path must never fail a hook invocation.
func SummarizeToolInput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return ""
	}
	m, ok := input.(map[string]any)
	if !ok {
		return ""
	}

	iter := priorityFieldsQuery.Run(m)
	v, ok := iter.Next()
	if !ok {
		return ""
	}
	if err, isErr := v.(error); isErr {
		_ = err
		return ""
	}
	values, ok := v.([]any)
	if !ok {
		return ""
	}

	parts := make([]string, 0, len(values))
	for _, val := range values {
		s, ok := val.(string)
		if !ok || s == "" {
			continue
		}
		parts = append(parts, truncate(s, fieldTruncate))
	}

	summary := strings.Join(parts, ", ")
	return truncate(summary, summaryTruncate)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
