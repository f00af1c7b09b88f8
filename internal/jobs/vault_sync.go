package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// vaultNote is one rendered markdown file before wiki-linking and
// backlink resolution run over the whole batch.
type vaultNote struct {
	subject string // the entity/title this note is about, empty for memory notes
	slug    string
	body    strings.Builder
}

// VaultSync mirrors memories, knowledge entries, and graph entities
// into an Obsidian-style markdown vault: each record becomes a note,
// and a post-processing pass inserts [[Name]] wiki-links for graph
// entity mentions plus a trailing Backlinks section.
func (j *Jobs) VaultSync() (bool, error) {
	if j.cfg.VaultPath == "" {
		return false, nil
	}
	if err := os.MkdirAll(j.cfg.VaultPath, 0755); err != nil {
		return false, fmt.Errorf("vault_sync: %w", err)
	}

	entities, err := j.st.ListGraphEntities("", 5000)
	if err != nil {
		return false, fmt.Errorf("vault_sync: %w", err)
	}
	memories, err := j.st.RecentMemories(500)
	if err != nil {
		return false, fmt.Errorf("vault_sync: %w", err)
	}
	knowledge, err := j.st.RecentKnowledge(500)
	if err != nil {
		return false, fmt.Errorf("vault_sync: %w", err)
	}

	notes := make(map[string]*vaultNote) // slug -> note
	nameIndex := make(map[string]string) // entity name -> slug

	for _, e := range entities {
		slug := vaultSlug(e.Name)
		n := &vaultNote{subject: e.Name, slug: slug}
		n.body.WriteString(fmt.Sprintf("# %s\n\n*%s*\n\n", e.Name, e.EntityType))
		if e.Description != "" {
			n.body.WriteString(e.Description + "\n\n")
		}
		if len(e.Aliases) > 0 {
			n.body.WriteString("Aliases: " + strings.Join(e.Aliases, ", ") + "\n\n")
		}
		notes[slug] = n
		nameIndex[e.Name] = slug
	}
	for _, m := range memories {
		slug := vaultSlug("memory-" + m.ID)
		n := &vaultNote{slug: slug}
		n.body.WriteString(fmt.Sprintf("# Memory %s\n\n%s\n\n", m.ID, m.Content))
		notes[slug] = n
	}
	for _, k := range knowledge {
		slug := vaultSlug(k.Title)
		n := &vaultNote{slug: slug}
		n.body.WriteString(fmt.Sprintf("# %s\n\n%s\n\n", k.Title, k.Content))
		notes[slug] = n
	}

	names := make([]string, 0, len(nameIndex))
	for name := range nameIndex {
		if len(name) > 2 {
			names = append(names, name)
		}
	}
	// Longest-first so "Jane Smith" wins over a later "Jane" match on
	// the same span.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	backlinks := make(map[string][]string) // target slug -> linking slugs

	for slug, n := range notes {
		linked := linkWikiReferences(n.body.String(), n.subject, names)
		n.body.Reset()
		n.body.WriteString(linked)

		for _, name := range names {
			if strings.Contains(linked, "[["+name+"]]") && nameIndex[name] != slug {
				backlinks[nameIndex[name]] = append(backlinks[nameIndex[name]], slug)
			}
		}
	}

	written := 0
	for slug, n := range notes {
		body := n.body.String()
		if refs := backlinks[slug]; len(refs) > 0 {
			sort.Strings(refs)
			body += "\n## Backlinks\n\n"
			for _, ref := range refs {
				body += fmt.Sprintf("- [[%s]]\n", ref)
			}
		}
		if err := j.writeVaultNote(slug, body); err != nil {
			return false, fmt.Errorf("vault_sync: %w", err)
		}
		written++
	}
	return written > 0, nil
}

// writeVaultNote writes both the human-readable markdown and a
// zstd-compressed cold copy.
func (j *Jobs) writeVaultNote(slug, body string) error {
	mdPath := filepath.Join(j.cfg.VaultPath, slug+".md")
	if err := os.WriteFile(mdPath, []byte(body), 0644); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(archiveEncoderLevel(j.cfg.ArchiveCompressionLevel)))
	if err != nil {
		return err
	}
	defer enc.Close()
	compressed := enc.EncodeAll([]byte(body), nil)
	return os.WriteFile(mdPath+".zst", compressed, 0644)
}

// archiveEncoderLevel maps the configured 1-22 zstd level onto the
// three of the library's encoder presets (SpeedFastest is never used).
func archiveEncoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level >= 19:
		return zstd.SpeedBestCompression
	case level >= 6:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedDefault
	}
}

// linkWikiReferences wraps the first up to three unlinked occurrences
// of each name in body with [[Name]], skipping the note's own subject
// and any occurrence already inside an existing [[...]] span.
func linkWikiReferences(body, subject string, names []string) string {
	for _, name := range names {
		if name == subject {
			continue
		}
		body = linkFirstN(body, name, 3)
	}
	return body
}

func linkFirstN(body, name string, n int) string {
	var out strings.Builder
	remaining := body
	linked := 0
	for linked < n {
		idx := indexWholeWord(remaining, name)
		if idx < 0 {
			break
		}
		if insideWikiLink(remaining, idx) {
			out.WriteString(remaining[:idx+len(name)])
			remaining = remaining[idx+len(name):]
			continue
		}
		out.WriteString(remaining[:idx])
		out.WriteString("[[" + name + "]]")
		remaining = remaining[idx+len(name):]
		linked++
	}
	out.WriteString(remaining)
	return out.String()
}

func indexWholeWord(s, word string) int {
	loc := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`).FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func insideWikiLink(s string, idx int) bool {
	open := strings.LastIndex(s[:idx], "[[")
	closed := strings.LastIndex(s[:idx], "]]")
	return open > closed
}

func vaultSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	slug := regexp.MustCompile(`-+`).ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}
