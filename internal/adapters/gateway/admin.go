package gateway

import (
	"context"
	"fmt"

	"case-portal/internal/ports/backend"
)

func (s *Session) AdminCases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/admin/cases/all", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch cases")
	}
	return out, nil
}

func (s *Session) AdminGPs(ctx context.Context) ([]backend.GP, error) {
	var out []backend.GP
	if err := s.c.hc.DoJSON(ctx, "GET", "/admin/gps", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch GPs")
	}
	return out, nil
}

func (s *Session) CaseDetails(ctx context.Context, caseID int) (backend.Case, error) {
	path := fmt.Sprintf("/admin/cases/%d", caseID)
	var out backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", path, s.headers(), nil, &out); err != nil {
		return backend.Case{}, normalizeErr(err, "failed to fetch case details")
	}
	return out, nil
}

func (s *Session) AssignGP(ctx context.Context, caseID int, in backend.AssignInput) error {
	path := fmt.Sprintf("/admin/cases/%d/assign", caseID)
	if err := s.c.hc.DoJSON(ctx, "POST", path, s.headers(), in, nil); err != nil {
		return normalizeErr(err, "failed to assign case")
	}
	return nil
}
