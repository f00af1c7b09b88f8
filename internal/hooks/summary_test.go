package hooks

import (
	"strings"
	"testing"
)

func TestSummarizeToolInputPrioritizesKnownFields(t *testing.T) {
	got := SummarizeToolInput([]byte(`{"command": "go test ./...", "description": "run tests"}`))
	if got != "go test ./..., run tests" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeToolInputEmptyPayload(t *testing.T) {
	if got := SummarizeToolInput(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSummarizeToolInputMalformedJSON(t *testing.T) {
	if got := SummarizeToolInput([]byte(`not json`)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSummarizeToolInputTruncatesLongFields(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := SummarizeToolInput([]byte(`{"content": "` + long + `"}`))
	if len(got) > summaryTruncate {
		t.Errorf("summary too long: %d chars", len(got))
	}
}

func TestSummarizeToolInputIgnoresUnknownFields(t *testing.T) {
	got := SummarizeToolInput([]byte(`{"unrelated_field": "value"}`))
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
