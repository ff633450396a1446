package gateway

import (
	"context"
	"fmt"

	"case-portal/internal/ports/backend"
)

func (s *Session) QACases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/qa/cases", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch QA pool cases")
	}
	return out, nil
}

func (s *Session) MyQACases(ctx context.Context) ([]backend.Case, error) {
	var out []backend.Case
	if err := s.c.hc.DoJSON(ctx, "GET", "/qa/my-cases", s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch QA cases")
	}
	return out, nil
}

func (s *Session) AssignRandomQA(ctx context.Context) (backend.Case, error) {
	var out backend.Case
	if err := s.c.hc.DoJSON(ctx, "POST", "/qa/assign-random", s.headers(), nil, &out); err != nil {
		return backend.Case{}, normalizeErr(err, "no QA cases available")
	}
	return out, nil
}

func (s *Session) SubmitQAFeedback(ctx context.Context, caseID int, in backend.FeedbackInput) error {
	path := fmt.Sprintf("/qa/cases/%d/feedback", caseID)
	if err := s.c.hc.DoJSON(ctx, "POST", path, s.headers(), in, nil); err != nil {
		return normalizeErr(err, "failed to submit QA feedback")
	}
	return nil
}
