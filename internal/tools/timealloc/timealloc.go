// Package timealloc wires the weekly time-allocation report onto
// internal/jobs's pure derivation engine, so the domain-hours
// calculation C10 builds for the daemon is also reachable on demand
// instead of waiting for its next scheduled run.
package timealloc

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/jobs"
	"jaybrain/internal/logging"
	"jaybrain/internal/tools"
)

var (
	auxJobs *jobs.Jobs
	audit   *logging.AuditLogger
)

// Init wires the package-level jobs handle and audit logger.
func Init(j *jobs.Jobs, a *logging.AuditLogger) {
	auxJobs = j
	audit = a
}

// ReportTool returns a tool reporting derived per-domain active hours
// against each life domain's hours_per_week target.
func ReportTool() *tools.Tool {
	return &tools.Tool{
		Name:        "time_allocation_report",
		Description: "Report derived active hours per life domain over a trailing window, banded against hours_per_week targets",
		Category:    tools.CategoryHomelab,
		Priority:    55,
		Execute:     executeReport,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"days_back": {Type: "integer", Description: "Reporting window in days, default 7", Default: 7},
			},
		},
	}
}

func executeReport(ctx context.Context, args map[string]any) (string, error) {
	daysBack := 7
	if v, ok := args["days_back"].(float64); ok && v > 0 {
		daysBack = int(v)
	}

	statuses, err := auxJobs.WeeklyTimeAllocationReport(daysBack)
	if err != nil {
		return "", fmt.Errorf("time_allocation_report: %w", err)
	}
	if len(statuses) == 0 {
		return fmt.Sprintf("No session activity in the last %d days", daysBack), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Time allocation, last %d days:\n", daysBack)
	for _, s := range statuses {
		if s.Status == "no_target" {
			fmt.Fprintf(&b, "- %s: %.1fh (no target)\n", s.DomainName, s.DerivedHours)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.1fh / %.1fh target (%s)\n", s.DomainName, s.DerivedHours, s.TargetHours, s.Status)
	}

	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditToolComplete, Category: "jobs", Action: "time_allocation_report", Success: true})
	}
	return b.String(), nil
}
