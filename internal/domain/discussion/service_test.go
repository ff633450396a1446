package discussion

import (
	"context"
	"errors"
	"testing"
	"time"

	"case-portal/internal/ports/backend"
	"case-portal/internal/ports/backend/backendtest"
)

func TestList_OrdersByTimestampAscending(t *testing.T) {
	f := backendtest.New()
	f.SeedCase(backend.Case{ID: 1, Status: backend.StatusAssigned})
	t0 := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	f.MessagesByCase[1] = []backend.Message{
		{ID: 2, CaseID: 1, Content: "segundo", Timestamp: t0.Add(time.Hour)},
		{ID: 1, CaseID: 1, Content: "primero", Timestamp: t0},
	}

	svc := NewService()
	msgs, err := svc.List(context.Background(), f, 1)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if msgs[0].Content != "primero" || msgs[1].Content != "segundo" {
		t.Fatalf("expected ascending order, got %#v", msgs)
	}
}

func TestPost_RefetchesThread(t *testing.T) {
	f := backendtest.New()
	f.User = backend.User{ID: 2, Username: "dr.gomez", Role: "gp"}
	f.SeedCase(backend.Case{ID: 1, Status: backend.StatusAssigned})

	svc := NewService()
	msgs, err := svc.Post(context.Background(), f, 1, "¿puede ampliar el síntoma?")
	if err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderRole != "gp" {
		t.Fatalf("expected refreshed thread with the new message, got %#v", msgs)
	}
	if f.CallCount("ListMessages") != 1 {
		t.Fatalf("expected a refetch after posting")
	}
}

func TestPost_EmptyContentRejectedLocally(t *testing.T) {
	f := backendtest.New()
	f.SeedCase(backend.Case{ID: 1, Status: backend.StatusAssigned})

	svc := NewService()
	if _, err := svc.Post(context.Background(), f, 1, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if f.CallCount("PostMessage") != 0 {
		t.Fatalf("empty message must not reach the client")
	}
}

func TestCanReply_ClaimantNeedsGPMessage(t *testing.T) {
	noGP := []backend.Message{{SenderRole: "claimant", Content: "hola"}}
	withGP := append(noGP, backend.Message{SenderRole: "gp", Content: "respuesta"})

	if CanReply(noGP, "claimant") {
		t.Fatalf("claimant should not reply before a GP message exists")
	}
	if !CanReply(withGP, "claimant") {
		t.Fatalf("claimant should reply once a GP message exists")
	}
	if !CanReply(noGP, "gp") {
		t.Fatalf("non-claimant roles can always reply")
	}
}
