package metrics

import "testing"

func TestRecordJobOutcomeDoesNotPanic(t *testing.T) {
	RecordJobOutcome("forge_study_morning", "triggered", 0)
	RecordJobOutcome("forge_study_morning", "ok", 0)
}

func TestRecordNotificationDoesNotPanic(t *testing.T) {
	RecordNotification("exam_countdown", false)
	RecordNotification("exam_countdown", true)
}
