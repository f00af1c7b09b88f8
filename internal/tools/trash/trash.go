// Package trash wires the soft-delete tool surface onto
// internal/store/trash_store.go's manifest and a configured trash
// directory on disk.
package trash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st            *store.Store
	audit         *logging.AuditLogger
	trashDir      string
	retentionDays int
)

// Init wires the package-level store, audit logger, trash directory,
// and retention window.
func Init(s *store.Store, a *logging.AuditLogger, dir string, retention int) {
	st = s
	audit = a
	trashDir = dir
	retentionDays = retention
}

// MoveTool returns a tool that soft-deletes a file or directory into
// the trash directory.
func MoveTool() *tools.Tool {
	return &tools.Tool{
		Name:        "trash_move",
		Description: "Move a file or directory into the trash instead of deleting it outright",
		Category:    tools.CategoryTrash,
		Priority:    75,
		Execute:     executeMove,
		Schema: tools.ToolSchema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path":     {Type: "string", Description: "Absolute path to the file or directory"},
				"category": {Type: "string", Description: "Label for grouping, e.g. downloads, screenshots", Default: "general"},
				"reason":   {Type: "string", Description: "Why this was trashed"},
			},
		},
	}
}

func executeMove(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	category, _ := args["category"].(string)
	reason, _ := args["reason"].(string)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("trash_move: %w", err)
	}

	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return "", fmt.Errorf("trash_move: %w", err)
	}
	dest := filepath.Join(trashDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(path)))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("trash_move: %w", err)
	}

	entry, err := st.InsertTrashEntry(store.TrashManifestEntry{
		OriginalPath: path,
		TrashPath:    dest,
		Category:     category,
		SizeBytes:    info.Size(),
		IsDir:        info.IsDir(),
		Reason:       reason,
		Auto:         false,
		ExpiresAt:    time.Now().UTC().AddDate(0, 0, retentionDays),
	})
	if err != nil {
		return "", fmt.Errorf("trash_move: %w", err)
	}

	logging.Tools("trash_move: %s -> %s (expires %s)", path, dest, entry.ExpiresAt.Format("2006-01-02"))
	return fmt.Sprintf("Trashed %s as %s, expires %s", path, entry.ID, entry.ExpiresAt.Format("2006-01-02")), nil
}

// ListTool returns a tool that lists the trash manifest.
func ListTool() *tools.Tool {
	return &tools.Tool{
		Name:        "trash_list",
		Description: "List trashed files, optionally filtered by category",
		Category:    tools.CategoryTrash,
		Priority:    60,
		Execute:     executeList,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"category": {Type: "string", Description: "Optional category filter"},
			},
		},
	}
}

func executeList(ctx context.Context, args map[string]any) (string, error) {
	category, _ := args["category"].(string)
	entries, err := st.ListTrashEntries(category)
	if err != nil {
		return "", fmt.Errorf("trash_list: %w", err)
	}
	if len(entries) == 0 {
		return "Trash is empty", nil
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] %s (%s, %d bytes, expires %s)\n", e.ID, e.OriginalPath, e.Category, e.SizeBytes, e.ExpiresAt.Format("2006-01-02"))
	}
	return b.String(), nil
}

// RestoreTool returns a tool that moves a trashed entry back to its
// original path.
func RestoreTool() *tools.Tool {
	return &tools.Tool{
		Name:        "trash_restore",
		Description: "Restore a trashed file or directory to its original path",
		Category:    tools.CategoryTrash,
		Priority:    70,
		Execute:     executeRestore,
		Schema: tools.ToolSchema{
			Required: []string{"id"},
			Properties: map[string]tools.Property{
				"id": {Type: "string", Description: "Trash manifest entry id"},
			},
		},
	}
}

func executeRestore(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}

	entries, err := st.ListTrashEntries("")
	if err != nil {
		return "", fmt.Errorf("trash_restore: %w", err)
	}
	var target *store.TrashManifestEntry
	for i := range entries {
		if entries[i].ID == id {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("trash entry %s not found", id)
	}

	if err := os.MkdirAll(filepath.Dir(target.OriginalPath), 0o755); err != nil {
		return "", fmt.Errorf("trash_restore: %w", err)
	}
	if err := os.Rename(target.TrashPath, target.OriginalPath); err != nil {
		return "", fmt.Errorf("trash_restore: %w", err)
	}
	if err := st.DeleteTrashEntry(id); err != nil {
		return "", fmt.Errorf("trash_restore: %w", err)
	}
	return fmt.Sprintf("Restored %s to %s", id, target.OriginalPath), nil
}

// SweepExpiredTool returns a tool that permanently deletes trash
// entries past their retention window.
func SweepExpiredTool() *tools.Tool {
	return &tools.Tool{
		Name:        "trash_sweep_expired",
		Description: "Permanently delete trashed entries past their retention window",
		Category:    tools.CategoryTrash,
		Priority:    50,
		Execute:     executeSweepExpired,
		Schema:      tools.ToolSchema{},
	}
}

func executeSweepExpired(ctx context.Context, args map[string]any) (string, error) {
	expired, err := st.ExpiredTrashEntries()
	if err != nil {
		return "", fmt.Errorf("trash_sweep_expired: %w", err)
	}
	swept := 0
	for _, e := range expired {
		if err := os.RemoveAll(e.TrashPath); err != nil {
			logging.Tools("trash_sweep_expired: failed to remove %s: %v", e.TrashPath, err)
			continue
		}
		if err := st.DeleteTrashEntry(e.ID); err != nil {
			logging.Tools("trash_sweep_expired: failed to clear manifest for %s: %v", e.ID, err)
			continue
		}
		swept++
	}
	return fmt.Sprintf("Swept %d of %d expired entries", swept, len(expired)), nil
}
