package status

import "testing"

// Todo el vocabulario conocido debe producir una etiqueta no vacía para
// cada viewer, incluyendo el estado ausente.
func TestNormalize_TotalOverKnownVocabulary(t *testing.T) {
	raws := []string{"completed", "qa_pending", "returned", "assigned", "pending", ""}
	viewers := []Viewer{ViewerClaimant, ViewerGP, ViewerQA, ViewerAdmin}

	for _, v := range viewers {
		for _, raw := range raws {
			if got := Normalize(raw, v); got == "" {
				t.Fatalf("Normalize(%q, %s) returned empty label", raw, v)
			}
		}
	}
}

func TestNormalize_AdminVocabulary(t *testing.T) {
	cases := map[string]string{
		"completed":  "Closed",
		"qa_pending": "QA Pending",
		"returned":   "Returned",
		"assigned":   "Assigned",
		"pending":    "Pending",
		"":           "Unknown",
	}
	for raw, want := range cases {
		if got := Normalize(raw, ViewerAdmin); got != want {
			t.Fatalf("admin %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestNormalize_GPVocabulary(t *testing.T) {
	cases := map[string]string{
		"completed":  "Approved",
		"qa_pending": "Pending Review",
		"":           "Pending Review",
		"returned":   "Returned",
	}
	for raw, want := range cases {
		if got := Normalize(raw, ViewerGP); got != want {
			t.Fatalf("gp %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestNormalize_ClaimantBadges(t *testing.T) {
	cases := map[string]string{
		"pending":   "SUBMITTED",
		"assigned":  "ASSIGNED",
		"completed": "APPROVED",
		"returned":  "DENIED",
		"":          "SUBMITTED",
	}
	for raw, want := range cases {
		if got := Normalize(raw, ViewerClaimant); got != want {
			t.Fatalf("claimant %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestNormalize_UnknownValueFallsBackToTitleCase(t *testing.T) {
	if got := Normalize("under_external_review", ViewerAdmin); got != "Under External Review" {
		t.Fatalf("expected title-cased fallback, got %q", got)
	}
	if got := Normalize("QA_PENDING", ViewerAdmin); got != "QA Pending" {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
	if got := Normalize("under_review", ViewerClaimant); got != "UNDER REVIEW" {
		t.Fatalf("expected uppercase claimant fallback, got %q", got)
	}
}
