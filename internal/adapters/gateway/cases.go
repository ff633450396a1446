package gateway

import (
	"context"
	"fmt"

	"case-portal/internal/ports/backend"
)

func (s *Session) CreateCase(ctx context.Context, in backend.CreateCaseInput) (backend.Case, error) {
	var out backend.Case
	if err := s.c.hc.DoJSON(ctx, "POST", "/cases", s.headers(), in, &out); err != nil {
		return backend.Case{}, normalizeErr(err, "failed to create case")
	}
	return out, nil
}

func (s *Session) MyCases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/cases/my", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch my cases")
	}
	return out, nil
}

// ListCases es el alias GET /cases que usa el dashboard viejo.
func (s *Session) ListCases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/cases", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch cases")
	}
	return out, nil
}

// DeleteCase borra un caso del claimant. El backend solo lo permite
// mientras el caso sigue pendiente.
func (s *Session) DeleteCase(ctx context.Context, caseID int) error {
	path := fmt.Sprintf("/cases/%d", caseID)
	if err := s.c.hc.DoJSON(ctx, "DELETE", path, s.headers(), nil, nil); err != nil {
		return normalizeErr(err, "failed to delete case")
	}
	return nil
}
