package gateway

import (
	"context"
	"fmt"

	"case-portal/internal/ports/backend"
)

func (s *Session) GPCases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/gp/cases", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch assigned cases")
	}
	return out, nil
}

func (s *Session) SubmitDecision(ctx context.Context, caseID int, in backend.DecisionInput) error {
	path := fmt.Sprintf("/gp/cases/%d/decision", caseID)
	if err := s.c.hc.DoJSON(ctx, "POST", path, s.headers(), in, nil); err != nil {
		return normalizeErr(err, "failed to submit decision")
	}
	return nil
}

// ApproveCase pega contra el endpoint viejo de aprobación directa.
// Queda por compatibilidad; el flujo actual usa SubmitDecision.
func (s *Session) ApproveCase(ctx context.Context, caseID int) error {
	path := fmt.Sprintf("/gp/approve/%d", caseID)
	if err := s.c.hc.DoJSON(ctx, "PUT", path, s.headers(), nil, nil); err != nil {
		return normalizeErr(err, "failed to approve case")
	}
	return nil
}
