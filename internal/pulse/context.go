package pulse

import "strings"

const (
	defaultLastN    = 5
	openingTurns    = 3
	snippetWindow   = 3
)

// ContextStatus reports whether a snippet search succeeded.
type ContextStatus string

const (
	ContextOK              ContextStatus = "ok"
	ContextSnippetNotFound ContextStatus = "snippet_not_found"
)

// Context is the result of BuildContext.
type Context struct {
	Status  ContextStatus
	Opening []Turn
	Turns   []Turn
}

// BuildContext renders a session's turns per get_session_context's two
// modes. With no snippet, it returns the final lastN turns (default 5)
// plus the first 3 turns as "session opening". With a snippet, it
// finds the first turn containing it (case-insensitive) and returns a
// window of snippetWindow turns on either side; if the snippet isn't
// found, it falls back to the last_n view with status
// "snippet_not_found".
func BuildContext(turns []Turn, lastN int, snippet string) Context {
	if lastN <= 0 {
		lastN = defaultLastN
	}

	if snippet != "" {
		if idx := findSnippet(turns, snippet); idx >= 0 {
			return Context{Status: ContextOK, Turns: window(turns, idx, snippetWindow)}
		}
		return Context{
			Status:  ContextSnippetNotFound,
			Opening: firstN(turns, openingTurns),
			Turns:   lastNTurns(turns, lastN),
		}
	}

	return Context{
		Status:  ContextOK,
		Opening: firstN(turns, openingTurns),
		Turns:   lastNTurns(turns, lastN),
	}
}

func findSnippet(turns []Turn, snippet string) int {
	needle := strings.ToLower(snippet)
	for i, t := range turns {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			return i
		}
	}
	return -1
}

func window(turns []Turn, idx, k int) []Turn {
	start := idx - k
	if start < 0 {
		start = 0
	}
	end := idx + k + 1
	if end > len(turns) {
		end = len(turns)
	}
	return turns[start:end]
}

func firstN(turns []Turn, n int) []Turn {
	if n > len(turns) {
		n = len(turns)
	}
	return turns[:n]
}

func lastNTurns(turns []Turn, n int) []Turn {
	if n > len(turns) {
		n = len(turns)
	}
	return turns[len(turns)-n:]
}
