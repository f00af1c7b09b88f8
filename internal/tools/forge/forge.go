// Package forge wires the spaced-repetition tool surface (forge_add_
// concept/record_review/study_queue/stats/readiness/calibration/
// error_analysis) onto internal/forge and the store (C7). There is no
// knowledge-map tool.
package forge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jaybrain/internal/forge"
	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// AddConceptTool returns a tool that creates a study concept.
func AddConceptTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_add_concept",
		Description: "Add a new spaced-repetition study concept",
		Category:    tools.CategoryForge,
		Priority:    85,
		Execute:     executeAddConcept,
		Schema: tools.ToolSchema{
			Required: []string{"term", "definition"},
			Properties: map[string]tools.Property{
				"term":        {Type: "string", Description: "The concept term"},
				"definition":  {Type: "string", Description: "The concept definition"},
				"category":    {Type: "string", Description: "Category label"},
				"difficulty":  {Type: "string", Description: "beginner, intermediate, or advanced", Default: store.DifficultyBeginner},
				"bloom_level": {Type: "string", Description: "remember, understand, apply, or analyze", Default: store.BloomRemember},
				"subject_id":  {Type: "string", Description: "Subject this concept belongs to"},
				"tags":        {Type: "array", Description: "Tags", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeAddConcept(ctx context.Context, args map[string]any) (string, error) {
	term, _ := args["term"].(string)
	definition, _ := args["definition"].(string)
	if strings.TrimSpace(term) == "" || strings.TrimSpace(definition) == "" {
		return "", fmt.Errorf("term and definition are required")
	}
	category, _ := args["category"].(string)
	difficulty, _ := args["difficulty"].(string)
	bloomLevel, _ := args["bloom_level"].(string)
	subjectID, _ := args["subject_id"].(string)
	tags := stringSlice(args["tags"])

	c, err := st.CreateForgeConcept(store.ForgeConcept{
		Term:       term,
		Definition: definition,
		Category:   category,
		Difficulty: difficulty,
		BloomLevel: bloomLevel,
		SubjectID:  subjectID,
		Tags:       tags,
	})
	if err != nil {
		return "", fmt.Errorf("forge_add_concept: %w", err)
	}
	logging.Forge("forge_add_concept: %s", c.ID)
	return fmt.Sprintf("Added concept %s: %s", c.ID, c.Term), nil
}

// RecordReviewTool returns a tool that records one review of a concept.
func RecordReviewTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_record_review",
		Description: "Record a study review of a concept, updating its mastery and next review date",
		Category:    tools.CategoryForge,
		Priority:    90,
		Execute:     executeRecordReview,
		Schema: tools.ToolSchema{
			Required: []string{"concept_id", "outcome", "confidence"},
			Properties: map[string]tools.Property{
				"concept_id": {Type: "string", Description: "The concept id"},
				"outcome":    {Type: "string", Description: "understood, reviewed, struggled, or skipped"},
				"confidence": {Type: "integer", Description: "1-5 confidence rating"},
				"was_correct": {Type: "boolean", Description: "Explicit correctness for v2 scoring; omit for v1 outcome-driven scoring"},
				"notes":      {Type: "string", Description: "Free-form notes"},
			},
		},
	}
}

func executeRecordReview(ctx context.Context, args map[string]any) (string, error) {
	conceptID, _ := args["concept_id"].(string)
	outcome, _ := args["outcome"].(string)
	confidence := intArg(args["confidence"], 3)
	notes, _ := args["notes"].(string)
	if conceptID == "" || outcome == "" {
		return "", fmt.Errorf("concept_id and outcome are required")
	}

	concept, err := st.GetForgeConcept(conceptID)
	if err != nil {
		return "", fmt.Errorf("forge_record_review: %w", err)
	}
	if concept == nil {
		return "", fmt.Errorf("concept %s not found", conceptID)
	}

	var wasCorrect *bool
	var newMastery float64
	if v, ok := args["was_correct"].(bool); ok {
		wasCorrect = &v
		newMastery = forge.ScoreV2(concept.MasteryLevel, v, confidence)
	} else {
		newMastery = forge.ScoreV1(concept.MasteryLevel, outcome, confidence)
	}

	now := time.Now().UTC()
	nextReview := forge.NextReviewInterval(newMastery, now)

	review := store.ForgeReview{
		ConceptID:  conceptID,
		Outcome:    outcome,
		Confidence: confidence,
		WasCorrect: wasCorrect,
		Notes:      notes,
		SubjectID:  concept.SubjectID,
		ReviewedAt: now,
	}
	if err := st.RecordForgeReview(review, newMastery, &nextReview); err != nil {
		return "", fmt.Errorf("forge_record_review: %w", err)
	}

	if wasCorrect != nil && !*wasCorrect {
		errType := forge.ErrorType(confidence, concept.MasteryLevel, concept.ReviewCount)
		_ = st.RecordForgeErrorPattern(store.ForgeErrorPattern{ConceptID: conceptID, ErrorType: errType})
	}
	_ = st.BumpForgeStreak(now.Format("2006-01-02"), 1, 0, 0)

	if audit != nil {
		audit.ForgeReview(conceptID, newMastery, true)
	}
	logging.Forge("forge_record_review: %s mastery=%.2f next_review=%s", conceptID, newMastery, nextReview.Format("2006-01-02"))
	return fmt.Sprintf("Recorded review for %s: mastery=%.2f, next review %s", conceptID, newMastery, nextReview.Format("2006-01-02")), nil
}

// StudyQueueTool returns a tool that builds the due-for-review queue.
func StudyQueueTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_study_queue",
		Description: "Build the study queue: v1 bucketed queue without a subject, v2 interleaved queue with one",
		Category:    tools.CategoryForge,
		Priority:    85,
		Execute:     executeStudyQueue,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"subject_id": {Type: "string", Description: "Scope to one subject for the v2 interleaved queue"},
				"limit":      {Type: "integer", Description: "Max candidates to consider, default 50", Default: 50},
			},
		},
	}
}

func executeStudyQueue(ctx context.Context, args map[string]any) (string, error) {
	subjectID, _ := args["subject_id"].(string)
	limit := intArg(args["limit"], 50)

	if subjectID == "" {
		concepts, err := st.AllForgeConcepts()
		if err != nil {
			return "", fmt.Errorf("forge_study_queue: %w", err)
		}
		q := forge.BuildQueueV1(concepts, time.Now().UTC())
		var b strings.Builder
		fmt.Fprintf(&b, "due_now: %d, struggling: %d, new: %d, up_next: %d\n", len(q.DueNow), len(q.Struggling), len(q.New), len(q.UpNext))
		writeConceptBucket(&b, "due_now", q.DueNow)
		writeConceptBucket(&b, "struggling", q.Struggling)
		writeConceptBucket(&b, "new", q.New)
		writeConceptBucket(&b, "up_next", q.UpNext)
		return b.String(), nil
	}

	concepts, err := st.DueForgeConcepts(subjectID, limit)
	if err != nil {
		return "", fmt.Errorf("forge_study_queue: %w", err)
	}
	objectives, err := objectivesBySubject(subjectID)
	if err != nil {
		return "", fmt.Errorf("forge_study_queue: %w", err)
	}
	items := forge.BuildQueueV2(concepts, objectives, time.Now().UTC(), limit)
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "[%s] %s (objective=%s weight=%.2f)\n", item.Concept.ID, item.Concept.Term, item.ObjectiveCode, item.ExamWeight)
	}
	return b.String(), nil
}

func writeConceptBucket(b *strings.Builder, name string, concepts []store.ForgeConcept) {
	for _, c := range concepts {
		fmt.Fprintf(b, "  %s: [%s] %s (mastery=%.2f)\n", name, c.ID, c.Term, c.MasteryLevel)
	}
}

// ReadinessTool returns a tool that reports per-subject coverage and
// mastery.
func ReadinessTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_readiness",
		Description: "Report coverage and average mastery for a subject, broken down by domain",
		Category:    tools.CategoryForge,
		Priority:    75,
		Execute:     executeReadiness,
		Schema: tools.ToolSchema{
			Required: []string{"subject_id"},
			Properties: map[string]tools.Property{
				"subject_id": {Type: "string", Description: "The subject id"},
			},
		},
	}
}

func executeReadiness(ctx context.Context, args map[string]any) (string, error) {
	subjectID, _ := args["subject_id"].(string)
	if subjectID == "" {
		return "", fmt.Errorf("subject_id is required")
	}
	all, err := st.AllForgeConcepts()
	if err != nil {
		return "", fmt.Errorf("forge_readiness: %w", err)
	}
	concepts := all[:0]
	for _, c := range all {
		if c.SubjectID == subjectID {
			concepts = append(concepts, c)
		}
	}
	objectives, err := objectivesBySubject(subjectID)
	if err != nil {
		return "", fmt.Errorf("forge_readiness: %w", err)
	}
	objList := make([]store.ForgeObjective, 0, len(objectives))
	for _, o := range objectives {
		objList = append(objList, o)
	}

	r := forge.BuildReadiness(concepts, objList)
	var b strings.Builder
	fmt.Fprintf(&b, "coverage=%.2f avg_mastery=%.2f (%d/%d concepts reviewed)\n", r.Coverage, r.AvgMastery, r.ReviewedConcepts, r.TotalConcepts)
	for _, d := range r.PerDomain {
		fmt.Fprintf(&b, "  %s: coverage=%.2f avg_mastery=%.2f weight=%.2f\n", d.Domain, d.Coverage, d.AvgMastery, d.ExamWeight)
	}
	return b.String(), nil
}

// CalibrationTool returns a tool that reports confidence calibration.
func CalibrationTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_calibration",
		Description: "Report how well confidence ratings track actual correctness (overconfidence rate)",
		Category:    tools.CategoryForge,
		Priority:    65,
		Execute:     executeCalibration,
		Schema:      tools.ToolSchema{},
	}
}

func executeCalibration(ctx context.Context, args map[string]any) (string, error) {
	reviews, err := st.AllForgeReviews()
	if err != nil {
		return "", fmt.Errorf("forge_calibration: %w", err)
	}
	c := forge.BuildCalibration(reviews)
	return fmt.Sprintf("confident_correct=%d confident_incorrect=%d unsure_correct=%d unsure_incorrect=%d overconfidence_rate=%.2f",
		c.ConfidentCorrect, c.ConfidentIncorrect, c.UnsureCorrect, c.UnsureIncorrect, c.OverconfidenceRate), nil
}

// StatsTool returns a tool reporting the current study streak.
func StatsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_stats",
		Description: "Report the current and longest consecutive-day study streak",
		Category:    tools.CategoryForge,
		Priority:    60,
		Execute:     executeStats,
		Schema:      tools.ToolSchema{},
	}
}

func executeStats(ctx context.Context, args map[string]any) (string, error) {
	dates, err := st.ForgeStreakDates()
	if err != nil {
		return "", fmt.Errorf("forge_stats: %w", err)
	}
	s := forge.CalculateStreak(dates, time.Now().UTC())
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditForgeStreak, Category: "forge", Success: true})
	}
	return fmt.Sprintf("current_streak=%d longest_streak=%d", s.Current, s.Longest), nil
}

// ErrorAnalysisTool returns a tool reporting error-type frequency.
func ErrorAnalysisTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forge_error_analysis",
		Description: "Report the frequency of each error type (slip, lapse, mistake, misconception) across all reviews",
		Category:    tools.CategoryForge,
		Priority:    60,
		Execute:     executeErrorAnalysis,
		Schema:      tools.ToolSchema{},
	}
}

func executeErrorAnalysis(ctx context.Context, args map[string]any) (string, error) {
	counts, err := st.ForgeErrorPatternCounts()
	if err != nil {
		return "", fmt.Errorf("forge_error_analysis: %w", err)
	}
	if len(counts) == 0 {
		return "No error patterns recorded", nil
	}
	var b strings.Builder
	for errType, n := range counts {
		fmt.Fprintf(&b, "%s: %d\n", errType, n)
	}
	return b.String(), nil
}

func objectivesBySubject(subjectID string) (map[string]store.ForgeObjective, error) {
	objectives, err := st.ListForgeObjectives(subjectID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]store.ForgeObjective, len(objectives))
	for _, o := range objectives {
		out[o.ID] = o
	}
	return out, nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}
