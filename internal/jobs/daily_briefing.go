package jobs

import (
	"fmt"
	"strings"
)

// DailyBriefing composes a morning summary (pending tasks, due forge
// reviews) and sends it through the shared notifier. The notifier
// enforces the 4096-char send_message budget, but the composer still
// keeps the body well under it so truncation is never the common case.
func (j *Jobs) DailyBriefing() (bool, error) {
	tasks, err := j.st.ListTasks("pending")
	if err != nil {
		return false, fmt.Errorf("daily_briefing: %w", err)
	}
	due, err := j.st.DueForgeConcepts("", 50)
	if err != nil {
		return false, fmt.Errorf("daily_briefing: %w", err)
	}

	if len(tasks) == 0 && len(due) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("Good morning. Today's briefing:\n\n")

	if len(tasks) > 0 {
		fmt.Fprintf(&b, "Pending tasks (%d):\n", len(tasks))
		for i, t := range tasks {
			if i >= 10 {
				fmt.Fprintf(&b, "...and %d more\n", len(tasks)-10)
				break
			}
			fmt.Fprintf(&b, "- %s\n", t.Title)
		}
		b.WriteString("\n")
	}

	if len(due) > 0 {
		fmt.Fprintf(&b, "Concepts due for review (%d):\n", len(due))
		for i, c := range due {
			if i >= 10 {
				fmt.Fprintf(&b, "...and %d more\n", len(due)-10)
				break
			}
			fmt.Fprintf(&b, "- %s\n", c.Term)
		}
	}

	return j.dispatch("daily_briefing", b.String())
}
