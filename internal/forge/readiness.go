package forge

import "jaybrain/internal/store"

// DomainReadiness is the per-domain coverage/mastery roll-up inside a
// Readiness report.
type DomainReadiness struct {
	Domain         string
	TotalConcepts  int
	ReviewedCount  int
	Coverage       float64
	AvgMastery     float64
	ExamWeight     float64
}

// Readiness is the per-subject summary returned by the readiness tool.
type Readiness struct {
	TotalConcepts    int
	ReviewedConcepts int
	Coverage         float64
	AvgMastery       float64
	PerDomain        []DomainReadiness
}

// BuildReadiness aggregates concepts grouped by their objective's
// domain. AvgMastery, overall and per domain, is an unweighted mean over
// concepts; each domain's ExamWeight is reported beside its roll-up and
// is not applied to any average.
func BuildReadiness(concepts []store.ForgeConcept, objectives []store.ForgeObjective) Readiness {
	objByID := make(map[string]store.ForgeObjective, len(objectives))
	for _, o := range objectives {
		objByID[o.ID] = o
	}

	type agg struct {
		total, reviewed int
		masterySum      float64
		weight          float64
	}
	byDomain := make(map[string]*agg)

	var total, reviewed int
	var masterySum float64

	for _, c := range concepts {
		total++
		masterySum += c.MasteryLevel
		if c.ReviewCount > 0 {
			reviewed++
		}

		domain := "unassigned"
		weight := 0.0
		for _, objID := range c.ObjectiveIDs {
			if o, ok := objByID[objID]; ok {
				domain = o.Domain
				weight = o.ExamWeight
				break
			}
		}
		a, ok := byDomain[domain]
		if !ok {
			a = &agg{}
			byDomain[domain] = a
		}
		a.total++
		if c.ReviewCount > 0 {
			a.reviewed++
		}
		a.masterySum += c.MasteryLevel
		a.weight = weight
	}

	r := Readiness{TotalConcepts: total, ReviewedConcepts: reviewed}
	if total > 0 {
		r.Coverage = float64(reviewed) / float64(total)
		r.AvgMastery = masterySum / float64(total)
	}
	for domain, a := range byDomain {
		dr := DomainReadiness{Domain: domain, TotalConcepts: a.total, ReviewedCount: a.reviewed, ExamWeight: a.weight}
		if a.total > 0 {
			dr.Coverage = float64(a.reviewed) / float64(a.total)
			dr.AvgMastery = a.masterySum / float64(a.total)
		}
		r.PerDomain = append(r.PerDomain, dr)
	}
	return r
}

// Calibration is the confidence-vs-correctness breakdown over a set
// of v2 reviews (was_correct explicit).
type Calibration struct {
	ConfidentCorrect    int
	ConfidentIncorrect  int
	UnsureCorrect       int
	UnsureIncorrect     int
	OverconfidenceRate  float64
}

// BuildCalibration tallies v2 reviews into the four confidence/
// correctness buckets and derives the overconfidence rate.
func BuildCalibration(reviews []store.ForgeReview) Calibration {
	var c Calibration
	for _, r := range reviews {
		if r.WasCorrect == nil {
			continue
		}
		confident := r.Confidence >= 4
		correct := *r.WasCorrect
		switch {
		case confident && correct:
			c.ConfidentCorrect++
		case confident && !correct:
			c.ConfidentIncorrect++
		case !confident && correct:
			c.UnsureCorrect++
		default:
			c.UnsureIncorrect++
		}
	}
	confidentTotal := c.ConfidentCorrect + c.ConfidentIncorrect
	if confidentTotal > 0 {
		c.OverconfidenceRate = float64(c.ConfidentIncorrect) / float64(confidentTotal)
	}
	return c
}
