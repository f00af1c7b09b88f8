package store

import (
	"regexp"
	"strings"
)

var nonWordChar = regexp.MustCompile(`[^\w]+`)

// SanitizeKeywordQuery strips non-word characters, splits on
// whitespace, and quotes each remaining token for use against a
// text-matching query. An empty result after sanitising means the
// caller should treat the query as "no results" rather than raising.
func SanitizeKeywordQuery(raw string) string {
	cleaned := nonWordChar.ReplaceAllString(raw, " ")
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, " ")
}

// KeywordHit is one keyword-search result. Score is the raw match
// score from the searched table (lower is better, matching BM25's
// "closer to -inf is better" convention used by retrieval fusion).
type KeywordHit struct {
	ID    string
	Score float64
}

// keywordSearchLike is the keyword-query implementation behind every
// *KeywordSearch method (the store has no FTS virtual table):
// case-insensitive substring match against the searched text column,
// scored by token-hit count (more hits -> lower/better score, keeping
// the same "smaller is better" convention internal/retrieval's fusion
// expects from every keyword source).
func keywordSearchLike(rows []struct {
	ID   string
	Text string
}, sanitized string, limit int) []KeywordHit {
	if sanitized == "" {
		return nil
	}
	tokens := strings.Fields(strings.ReplaceAll(sanitized, `"`, ""))
	var hits []KeywordHit
	for _, r := range rows {
		lower := strings.ToLower(r.Text)
		matches := 0
		for _, t := range tokens {
			if strings.Contains(lower, strings.ToLower(t)) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		hits = append(hits, KeywordHit{ID: r.ID, Score: -float64(matches)})
	}
	sortKeywordHits(hits)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func sortKeywordHits(hits []KeywordHit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Score < hits[j-1].Score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}
