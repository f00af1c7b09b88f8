package pulse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const turnTruncate = 800

// skippedTypes are JSONL line "type" values that never carry a turn.
var skippedTypes = map[string]bool{
	"progress":               true,
	"file-history-snapshot": true,
}

// Turn is one parsed transcript entry.
type Turn struct {
	Role      string
	Text      string
	RequestID string
}

type transcriptLine struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Message   *transcriptMsg  `json:"message"`
}

type transcriptMsg struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseTranscript reads JSONL transcript lines and returns the text
// turns, applying the filtering and streaming-dedup rules: skip
// progress/file-history-snapshot lines and tool-only turns, keep only
// the last assistant text for a repeated requestId, and truncate each
// turn to 800 chars. Malformed lines are skipped rather than failing
// the whole read.
func ParseTranscript(r io.Reader) ([]Turn, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var turns []Turn
	requestIndex := make(map[string]int)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var tl transcriptLine
		if err := json.Unmarshal([]byte(line), &tl); err != nil {
			continue
		}
		if skippedTypes[tl.Type] {
			continue
		}
		if tl.Message == nil {
			continue
		}

		text, ok := turnText(tl.Message.Role, tl.Message.Content)
		if !ok {
			continue
		}
		text = truncate(text, turnTruncate)

		turn := Turn{Role: tl.Message.Role, Text: text, RequestID: tl.RequestID}

		if tl.Message.Role == "assistant" && tl.RequestID != "" {
			if idx, seen := requestIndex[tl.RequestID]; seen {
				turns[idx] = turn
				continue
			}
			requestIndex[tl.RequestID] = len(turns)
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}

// turnText decides whether a message counts as a text turn and, if so,
// returns its text. A user turn qualifies when content is a non-blank
// string or a list with at least one text block (tool_result-only
// turns are filtered). An assistant turn qualifies only via a text
// block in its content list; thinking/tool_use blocks alone don't
// count.
func turnText(role string, raw json.RawMessage) (string, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if role == "assistant" {
			return "", false
		}
		if strings.TrimSpace(asString) == "" {
			return "", false
		}
		return asString, true
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", false
	}

	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && strings.TrimSpace(b.Text) != "" {
			texts = append(texts, b.Text)
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, "\n"), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// FindTranscriptFile locates the transcript JSONL file under dir whose
// base name (stripped of the .jsonl extension) has idOrPrefix as a
// prefix. Ties resolve to the lexicographically-first match.
func FindTranscriptFile(dir, idOrPrefix string) (string, error) {
	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		base := strings.TrimSuffix(d.Name(), ".jsonl")
		if strings.HasPrefix(base, idOrPrefix) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no transcript found for %q under %s", idOrPrefix, dir)
	}
	sort.Strings(matches)
	return matches[0], nil
}
