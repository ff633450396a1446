package cases

import (
	"context"
	"reflect"
	"testing"
	"time"

	"case-portal/internal/ports/backend"
	"case-portal/internal/ports/backend/backendtest"
)

func seedMixedCases(f *backendtest.Fake) {
	deadline := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	f.SeedCase(backend.Case{ID: 1, ClaimantID: 1, Description: "knee pain", Status: backend.StatusPending})
	f.SeedCase(backend.Case{ID: 2, ClaimantID: 1, Description: "back pain", Status: backend.StatusAssigned, AssignedGPID: 7, SLADeadline: &deadline})
	f.SeedCase(backend.Case{ID: 3, ClaimantID: 1, Description: "headache", Status: backend.StatusCompleted})
	f.SeedCase(backend.Case{ID: 4, ClaimantID: 1, Description: "fatigue", Status: backend.StatusReturned})
	f.SeedCase(backend.Case{ID: 5, ClaimantID: 2, Description: "other claimant", Status: ""})
}

func TestLoadMine_BucketsAndBadges(t *testing.T) {
	f := backendtest.New()
	f.User = backend.User{ID: 1, Username: "ana", Role: "claimant"}
	seedMixedCases(f)

	svc := NewService()
	v, err := svc.LoadMine(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadMine error: %v", err)
	}

	if len(v.Created) != 1 || len(v.Active) != 1 || len(v.Closed) != 2 {
		t.Fatalf("unexpected buckets: created=%d active=%d closed=%d", len(v.Created), len(v.Active), len(v.Closed))
	}
	if v.Created[0].StatusLabel != "SUBMITTED" {
		t.Fatalf("expected SUBMITTED badge, got %q", v.Created[0].StatusLabel)
	}
	if v.Active[0].StatusLabel != "ASSIGNED" {
		t.Fatalf("expected ASSIGNED badge, got %q", v.Active[0].StatusLabel)
	}
	if v.Stats != (ClaimantStats{Created: 1, Active: 1, Closed: 2}) {
		t.Fatalf("unexpected stats: %#v", v.Stats)
	}
}

func TestLoadMine_AbsentStatusCountsAsCreated(t *testing.T) {
	f := backendtest.New()
	f.User = backend.User{ID: 2, Username: "leo", Role: "claimant"}
	seedMixedCases(f)

	svc := NewService()
	v, err := svc.LoadMine(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadMine error: %v", err)
	}
	if len(v.Created) != 1 {
		t.Fatalf("case without status should land in created, got %d", len(v.Created))
	}
	if v.Created[0].StatusLabel != "SUBMITTED" {
		t.Fatalf("expected SUBMITTED for absent status, got %q", v.Created[0].StatusLabel)
	}
}

func TestLoadAll_StatsAndGPCrossRef(t *testing.T) {
	f := backendtest.New()
	f.GPs = []backend.GP{{ID: 7, Username: "dr.gomez"}}
	seedMixedCases(f)

	svc := NewService()
	v, err := svc.LoadAll(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}

	want := AdminStats{TotalCreated: 5, Allotted: 1, Closed: 2, Approved: 1, Rework: 1, ReadyToGo: 1}
	if v.Stats != want {
		t.Fatalf("stats: expected %#v, got %#v", want, v.Stats)
	}

	var assigned CaseView
	for _, cv := range v.Cases {
		if cv.ID == 2 {
			assigned = cv
		}
	}
	if assigned.GPName != "dr.gomez" {
		t.Fatalf("expected resolved GP name, got %q", assigned.GPName)
	}
	if assigned.StatusLabel != "Assigned" {
		t.Fatalf("expected admin label Assigned, got %q", assigned.StatusLabel)
	}
}

func TestLoadAll_GPPlaceholderWhenRosterUnavailable(t *testing.T) {
	f := backendtest.New()
	f.Errs["AdminGPs"] = backendtest.ErrNotFound
	seedMixedCases(f)

	svc := NewService()
	v, err := svc.LoadAll(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	for _, cv := range v.Cases {
		if cv.ID == 2 && cv.GPName != "GP #7" {
			t.Fatalf("expected placeholder GP #7, got %q", cv.GPName)
		}
	}
}

func TestLoadAll_RosterFetchedOncePerLoad(t *testing.T) {
	f := backendtest.New()
	deadline := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	f.SeedCase(backend.Case{ID: 1, Status: backend.StatusAssigned, AssignedGPID: 1, SLADeadline: &deadline})
	f.SeedCase(backend.Case{ID: 2, Status: backend.StatusAssigned, AssignedGPID: 2, SLADeadline: &deadline})
	f.SeedCase(backend.Case{ID: 3, Status: backend.StatusAssigned, AssignedGPID: 3, SLADeadline: &deadline})

	svc := NewService()
	if _, err := svc.LoadAll(context.Background(), f); err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if got := f.CallCount("AdminGPs"); got != 1 {
		t.Fatalf("expected a single roster fetch per load, got %d", got)
	}
}

func TestLoadAssigned_SLADaysLeftClampedAtZero(t *testing.T) {
	f := backendtest.New()
	f.User = backend.User{ID: 7, Username: "dr.gomez", Role: "gp"}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-48 * time.Hour)
	f.SeedCase(backend.Case{ID: 1, AssignedGPID: 7, Status: backend.StatusAssigned, SLADeadline: &future})
	f.SeedCase(backend.Case{ID: 2, AssignedGPID: 7, Status: backend.StatusAssigned, SLADeadline: &past})

	svc := NewService()
	svc.now = func() time.Time { return now }

	v, err := svc.LoadAssigned(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadAssigned error: %v", err)
	}
	if v.Cases[0].SLADaysLeft == nil || *v.Cases[0].SLADaysLeft != 3 {
		t.Fatalf("expected 3 days left, got %v", v.Cases[0].SLADaysLeft)
	}
	if v.Cases[1].SLADaysLeft == nil || *v.Cases[1].SLADaysLeft != 0 {
		t.Fatalf("expected overdue clamped to 0, got %v", v.Cases[1].SLADaysLeft)
	}
	if v.Stats.Pending != 2 || v.Stats.Allotted != 2 {
		t.Fatalf("unexpected stats: %#v", v.Stats)
	}
}

func TestLoadPool_SplitsPoolAndMine(t *testing.T) {
	f := backendtest.New()
	f.SeedCase(backend.Case{ID: 1, Status: backend.StatusQAPending})
	f.SeedCase(backend.Case{ID: 2, Status: backend.StatusCompleted})
	f.SeedCase(backend.Case{ID: 3, Status: backend.StatusReturned})

	svc := NewService()
	v, err := svc.LoadPool(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadPool error: %v", err)
	}
	if len(v.Pool) != 1 || len(v.Mine) != 2 {
		t.Fatalf("unexpected split: pool=%d mine=%d", len(v.Pool), len(v.Mine))
	}
	if v.Stats != (QAStats{Submitted: 3, Rework: 1, ReadyToGo: 1}) {
		t.Fatalf("unexpected stats: %#v", v.Stats)
	}
	if v.Mine[0].StatusLabel != "Approved" && v.Mine[1].StatusLabel != "Approved" {
		t.Fatalf("expected a completed case labeled Approved for QA")
	}
}

// Recargar dos veces sin mutaciones intermedias produce la misma vista.
func TestLoadAll_ReloadIsIdempotent(t *testing.T) {
	f := backendtest.New()
	f.GPs = []backend.GP{{ID: 7, Username: "dr.gomez"}}
	seedMixedCases(f)

	svc := NewService()
	v1, err := svc.LoadAll(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadAll #1 error: %v", err)
	}
	v2, err := svc.LoadAll(context.Background(), f)
	if err != nil {
		t.Fatalf("LoadAll #2 error: %v", err)
	}
	if !reflect.DeepEqual(v1, v2) {
		t.Fatalf("reload changed the view:\n%#v\nvs\n%#v", v1, v2)
	}
}
