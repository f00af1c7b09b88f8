package jobs

import (
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestVaultSlug(t *testing.T) {
	cases := map[string]string{
		"Jane Smith":       "jane-smith",
		"  leading/trail  ": "leading-trail",
		"Multi   Space":    "multi-space",
		"already-slug":     "already-slug",
	}
	for in, want := range cases {
		if got := vaultSlug(in); got != want {
			t.Errorf("vaultSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestArchiveEncoderLevel(t *testing.T) {
	cases := []struct {
		level int
		want  zstd.EncoderLevel
	}{
		{1, zstd.SpeedDefault},
		{5, zstd.SpeedDefault},
		{6, zstd.SpeedBetterCompression},
		{18, zstd.SpeedBetterCompression},
		{19, zstd.SpeedBestCompression},
		{22, zstd.SpeedBestCompression},
	}
	for _, c := range cases {
		if got := archiveEncoderLevel(c.level); got != c.want {
			t.Errorf("archiveEncoderLevel(%d) = %v, want %v", c.level, got, c.want)
		}
	}
}

func TestIndexWholeWordMatchesBoundary(t *testing.T) {
	if idx := indexWholeWord("see Jane run", "Jane"); idx != 4 {
		t.Fatalf("expected index 4, got %d", idx)
	}
	if idx := indexWholeWord("Janet runs", "Jane"); idx != -1 {
		t.Fatalf("expected no whole-word match inside Janet, got %d", idx)
	}
}

func TestInsideWikiLink(t *testing.T) {
	s := "before [[Jane Smith]] after Jane"
	idx := strings.Index(s, "Jane Smith")
	if !insideWikiLink(s, idx) {
		t.Fatal("expected occurrence inside [[...]] to be detected")
	}
	idx2 := strings.LastIndex(s, "Jane")
	if insideWikiLink(s, idx2) {
		t.Fatal("expected trailing bare occurrence to not be flagged as inside a wiki link")
	}
}

func TestLinkFirstNLinksUpToLimit(t *testing.T) {
	body := "Jane met Jane and Jane again and Jane once more"
	linked := linkFirstN(body, "Jane", 2)
	if strings.Count(linked, "[[Jane]]") != 2 {
		t.Fatalf("expected exactly 2 links, got: %s", linked)
	}
	if strings.Count(linked, "Jane") != 4 {
		t.Fatalf("expected all 4 occurrences preserved, got: %s", linked)
	}
}

func TestLinkFirstNSkipsAlreadyLinkedOccurrence(t *testing.T) {
	body := "[[Jane]] met Jane"
	linked := linkFirstN(body, "Jane", 3)
	if strings.Count(linked, "[[Jane]]") != 2 {
		t.Fatalf("expected the bare occurrence to also get linked, got: %s", linked)
	}
}

func TestLinkWikiReferencesSkipsSubject(t *testing.T) {
	body := "Jane wrote this note about Jane"
	linked := linkWikiReferences(body, "Jane", []string{"Jane"})
	if strings.Contains(linked, "[[Jane]]") {
		t.Fatalf("expected the note's own subject to never be self-linked, got: %s", linked)
	}
}

func TestVaultSyncNoopWhenVaultPathEmpty(t *testing.T) {
	j := newTestJobs(t)
	j.cfg.VaultPath = ""
	triggered, err := j.VaultSync()
	if err != nil {
		t.Fatalf("VaultSync: %v", err)
	}
	if triggered {
		t.Fatal("expected VaultSync to be a no-op with an empty VaultPath")
	}
}
