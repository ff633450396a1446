package gateway

import (
	"context"
	"fmt"

	"case-portal/internal/ports/backend"
)

func (s *Session) ListMessages(ctx context.Context, caseID int) ([]backend.Message, error) {
	path := fmt.Sprintf("/cases/%d/discuss/", caseID)
	var out []backend.Message
	if err := s.c.hc.DoJSON(ctx, "GET", path, s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch messages")
	}
	return out, nil
}

func (s *Session) PostMessage(ctx context.Context, caseID int, content string) (backend.Message, error) {
	path := fmt.Sprintf("/cases/%d/discuss/", caseID)
	in := map[string]string{"content": content}
	var out backend.Message
	if err := s.c.hc.DoJSON(ctx, "POST", path, s.headers(), in, &out); err != nil {
		return backend.Message{}, normalizeErr(err, "failed to post message")
	}
	return out, nil
}
