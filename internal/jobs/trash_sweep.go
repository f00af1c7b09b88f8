package jobs

import (
	"context"
	"fmt"

	"jaybrain/internal/tools/trash"
)

// TrashSweep permanently deletes manifest entries past their
// retention window. It runs the same tool the MCP surface exposes for
// an on-demand sweep, so the job and the tool can never disagree on
// what "expired" means.
func (j *Jobs) TrashSweep() (bool, error) {
	tool := trash.SweepExpiredTool()
	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		return false, fmt.Errorf("trash_sweep: %w", err)
	}

	var swept, total int
	fmt.Sscanf(out, "Swept %d of %d expired entries", &swept, &total)
	return swept > 0, nil
}
