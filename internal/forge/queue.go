package forge

import (
	"sort"
	"time"

	"jaybrain/internal/store"
)

const (
	strugglingMasteryThreshold = 0.3
	strugglingMinReviewCount   = 2
	upNextWindowDays           = 3
	upNextMasteryFloor         = 0.3
	upNextMasteryCeiling       = 0.7
)

// QueueV1 is the no-subject study queue: four disjoint buckets,
// deduplicated so each concept appears in at most one (priority
// due_now > struggling > new > up_next).
type QueueV1 struct {
	DueNow     []store.ForgeConcept
	Struggling []store.ForgeConcept
	New        []store.ForgeConcept
	UpNext     []store.ForgeConcept
}

// BuildQueueV1 buckets a set of due-or-candidate concepts. Callers
// should pass a broad candidate set (e.g. store.DueForgeConcepts plus
// a separate never-reviewed fetch) since "new" and "up_next" concepts
// may not be due yet.
func BuildQueueV1(concepts []store.ForgeConcept, now time.Time) QueueV1 {
	var q QueueV1
	seen := make(map[string]bool, len(concepts))

	place := func(c store.ForgeConcept, bucket *[]store.ForgeConcept) {
		if seen[c.ID] {
			return
		}
		seen[c.ID] = true
		*bucket = append(*bucket, c)
	}

	for _, c := range concepts {
		if c.NextReview != nil && !c.NextReview.After(now) {
			place(c, &q.DueNow)
		}
	}
	for _, c := range concepts {
		if c.MasteryLevel < strugglingMasteryThreshold && c.ReviewCount >= strugglingMinReviewCount {
			place(c, &q.Struggling)
		}
	}
	for _, c := range concepts {
		if c.ReviewCount == 0 {
			place(c, &q.New)
		}
	}
	for _, c := range concepts {
		if c.NextReview == nil {
			continue
		}
		withinWindow := c.NextReview.After(now) && c.NextReview.Before(now.AddDate(0, 0, upNextWindowDays))
		inMasteryBand := c.MasteryLevel >= upNextMasteryFloor && c.MasteryLevel <= upNextMasteryCeiling
		if withinWindow && inMasteryBand {
			place(c, &q.UpNext)
		}
	}
	return q
}

// InterleavedItem is one entry in the v2 subject-scoped study queue.
type InterleavedItem struct {
	Concept       store.ForgeConcept
	ObjectiveCode string
	ExamWeight    float64
	urgency       float64
}

// BuildQueueV2 ranks concepts for one subject by urgency (due-ness and
// inverse mastery) combined with the owning objective's exam weight,
// so high-weight, low-mastery domains surface first.
func BuildQueueV2(concepts []store.ForgeConcept, objectiveByID map[string]store.ForgeObjective, now time.Time, limit int) []InterleavedItem {
	items := make([]InterleavedItem, 0, len(concepts))
	for _, c := range concepts {
		urgency := 1 - c.MasteryLevel
		if c.NextReview != nil && !c.NextReview.After(now) {
			urgency += 1
		}

		var code string
		var weight float64 = 0.1
		for _, objID := range c.ObjectiveIDs {
			if obj, ok := objectiveByID[objID]; ok {
				code = obj.Code
				weight = obj.ExamWeight
				break
			}
		}
		items = append(items, InterleavedItem{
			Concept:       c,
			ObjectiveCode: code,
			ExamWeight:    weight,
			urgency:       urgency * (0.5 + weight),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].urgency > items[j].urgency })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
