package jobs

import (
	"testing"
	"time"

	"jaybrain/internal/config"
	"jaybrain/internal/store"
)

func TestResolveDomainFirstPrefixMatchWins(t *testing.T) {
	rules := []config.DomainCwdRule{
		{Prefix: "~/work", DomainName: "Career"},
		{Prefix: "~/work/side", DomainName: "Side Projects"},
	}
	if got := resolveDomain("~/work/side/app", rules); got != "Career" {
		t.Fatalf("expected the first matching rule (Career) to win, got %q", got)
	}
}

func TestResolveDomainIsCaseInsensitive(t *testing.T) {
	rules := []config.DomainCwdRule{{Prefix: "~/Work", DomainName: "Career"}}
	if got := resolveDomain("~/work/app", rules); got != "Career" {
		t.Fatalf("expected case-insensitive prefix match, got %q", got)
	}
}

func TestResolveDomainFallsBackToUncategorized(t *testing.T) {
	if got := resolveDomain("~/random", nil); got != uncategorizedDomain {
		t.Fatalf("expected uncategorized fallback, got %q", got)
	}
}

func TestDeriveDomainHoursSumsGapsUnderThreshold(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	activity := []store.SessionActivityLogEntry{
		{SessionID: "s1", Timestamp: base},
		{SessionID: "s1", Timestamp: base.Add(10 * time.Minute)},
		{SessionID: "s1", Timestamp: base.Add(20 * time.Minute)},
		// A 3-hour gap here exceeds the idle threshold and is excluded.
		{SessionID: "s1", Timestamp: base.Add(3*time.Hour + 20*time.Minute)},
	}
	sessionCwd := map[string]string{"s1": "~/work/app"}
	rules := []config.DomainCwdRule{{Prefix: "~/work", DomainName: "Career"}}

	out := DeriveDomainHours(activity, sessionCwd, rules, 30*time.Minute)
	if len(out) != 1 {
		t.Fatalf("expected a single domain, got %v", out)
	}
	if out[0].DomainName != "Career" {
		t.Fatalf("expected Career, got %q", out[0].DomainName)
	}
	want := 20.0 / 60.0
	if diff := out[0].Hours - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected %.4fh of active time, got %.4fh", want, out[0].Hours)
	}
}

func TestBuildWeeklyReportBandsStatus(t *testing.T) {
	derived := []DomainHours{
		{DomainName: "Career", Hours: 2},
		{DomainName: "Learning", Hours: 20},
		{DomainName: "Side Projects", Hours: 7},
		{DomainName: "Unconfigured", Hours: 5},
	}
	domains := []store.LifeDomain{
		{Name: "Career", HoursPerWeek: 10},
		{Name: "Learning", HoursPerWeek: 10},
		{Name: "Side Projects", HoursPerWeek: 7},
	}

	byName := make(map[string]DomainStatus)
	for _, s := range BuildWeeklyReport(derived, domains, 7) {
		byName[s.DomainName] = s
	}

	if byName["Career"].Status != "under" {
		t.Fatalf("expected Career under target, got %q", byName["Career"].Status)
	}
	if byName["Learning"].Status != "over" {
		t.Fatalf("expected Learning over target, got %q", byName["Learning"].Status)
	}
	if byName["Side Projects"].Status != "on_track" {
		t.Fatalf("expected Side Projects on_track, got %q", byName["Side Projects"].Status)
	}
	if byName["Unconfigured"].Status != "no_target" {
		t.Fatalf("expected Unconfigured to have no_target, got %q", byName["Unconfigured"].Status)
	}
}

func TestBuildWeeklyReportScalesTargetByWindow(t *testing.T) {
	derived := []DomainHours{{DomainName: "Career", Hours: 3}}
	domains := []store.LifeDomain{{Name: "Career", HoursPerWeek: 14}}

	// Over a 14-day window the scaled target is 28h; 3h is well under it.
	out := BuildWeeklyReport(derived, domains, 14)
	if out[0].TargetHours != 28 {
		t.Fatalf("expected scaled target of 28h, got %.1f", out[0].TargetHours)
	}
	if out[0].Status != "under" {
		t.Fatalf("expected under, got %q", out[0].Status)
	}
}
