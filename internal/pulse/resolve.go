// Package pulse holds the cross-session awareness (C4) domain logic:
// needle resolution against known session ids and JSONL transcript
// parsing. internal/tools/pulse wraps this as the MCP tool surface.
package pulse

import "strings"

// ResolveStatus is the outcome of matching a needle against known
// session ids.
type ResolveStatus string

const (
	ResolveOK        ResolveStatus = "ok"
	ResolveAmbiguous ResolveStatus = "ambiguous"
	ResolveNotFound  ResolveStatus = "not_found"
)

// Resolution is the result of ResolveNeedle.
type Resolution struct {
	Status  ResolveStatus
	Match   string
	Matches []string
}

// ResolveNeedle matches needle against ids: an exact match wins outright;
// otherwise every id containing needle as a substring is a partial match.
// One partial match resolves; several are ambiguous; none is not_found.
func ResolveNeedle(ids []string, needle string) Resolution {
	for _, id := range ids {
		if id == needle {
			return Resolution{Status: ResolveOK, Match: id}
		}
	}

	var partial []string
	for _, id := range ids {
		if strings.Contains(id, needle) {
			partial = append(partial, id)
		}
	}

	switch len(partial) {
	case 0:
		return Resolution{Status: ResolveNotFound}
	case 1:
		return Resolution{Status: ResolveOK, Match: partial[0]}
	default:
		return Resolution{Status: ResolveAmbiguous, Matches: partial}
	}
}
