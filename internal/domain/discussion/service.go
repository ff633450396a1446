// Package discussion expone el hilo de mensajes de un caso. Append-only:
// cada envío repite el fetch completo para que el caller pinte el hilo
// fresco, sin parcheo local.
package discussion

import (
	"context"
	"errors"
	"sort"
	"strings"

	"case-portal/internal/ports/backend"
)

var ErrEmptyMessage = errors.New("message content required")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// List devuelve el hilo ordenado por timestamp ascendente.
func (s *Service) List(ctx context.Context, api backend.API, caseID int) ([]backend.Message, error) {
	msgs, err := api.ListMessages(ctx, caseID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

// Post envía y devuelve el hilo completo refrescado.
func (s *Service) Post(ctx context.Context, api backend.API, caseID int, content string) ([]backend.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := api.PostMessage(ctx, caseID, content); err != nil {
		return nil, err
	}
	return s.List(ctx, api, caseID)
}

// CanReply replica la regla del dashboard del claimant: responder solo
// cuando ya hay al menos un mensaje de un GP en el hilo.
func CanReply(msgs []backend.Message, viewerRole string) bool {
	if !strings.EqualFold(viewerRole, "claimant") {
		return true
	}
	for _, m := range msgs {
		if strings.EqualFold(m.SenderRole, "gp") {
			return true
		}
	}
	return false
}
