// Package gp implementa el flujo del médico: list -> detail, con dos
// sub-paneles independientes dentro del detalle. La aclaración manda un
// mensaje y se queda en detail; la decisión final cierra el caso y vuelve
// a la lista.
package gp

import (
	"context"
	"errors"
	"strings"

	"case-portal/internal/domain/cases"
	"case-portal/internal/domain/discussion"
	"case-portal/internal/domain/documents"
	"case-portal/internal/ports/backend"
)

var (
	ErrValidation    = errors.New("invalid input")
	ErrBadTransition = errors.New("invalid transition")
)

type Step string

const (
	StepList   Step = "list"
	StepDetail Step = "detail"
)

type State struct {
	Step   Step
	CaseID int
}

type Store interface {
	Get(userID string) (State, bool)
	Put(userID string, st State)
	Delete(userID string)
}

type Service struct {
	store      Store
	cases      *cases.Service
	docs       *documents.Service
	discussion *discussion.Service
}

func NewService(store Store, casesSvc *cases.Service, docsSvc *documents.Service, discSvc *discussion.Service) *Service {
	return &Service{
		store:      store,
		cases:      casesSvc,
		docs:       docsSvc,
		discussion: discSvc,
	}
}

// DashboardView es la bandeja de casos asignados.
type DashboardView struct {
	Cases  []cases.CaseView `json:"cases"`
	Stats  cases.GPStats    `json:"stats"`
	Step   Step             `json:"step"`
	CaseID int              `json:"case_id,omitempty"`
}

// DetailView es el caso abierto con adjuntos e hilo de aclaraciones.
type DetailView struct {
	Case      cases.CaseView     `json:"case"`
	Documents []backend.Document `json:"documents"`
	Messages  []backend.Message  `json:"messages"`
	Step      Step               `json:"step"`
}

func (s *Service) stateOf(userID string) State {
	st, ok := s.store.Get(userID)
	if !ok {
		st = State{Step: StepList}
	}
	return st
}

func (s *Service) Dashboard(ctx context.Context, api backend.API, userID string) (DashboardView, error) {
	st := s.stateOf(userID)

	v, err := s.cases.LoadAssigned(ctx, api)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{Cases: v.Cases, Stats: v.Stats, Step: st.Step, CaseID: st.CaseID}, nil
}

// Open abre un caso asignado: detalle, adjuntos e hilo en un solo viaje.
func (s *Service) Open(ctx context.Context, api backend.API, userID string, caseID int) (DetailView, error) {
	raw, err := api.GPCases(ctx)
	if err != nil {
		return DetailView{}, err
	}
	var found *backend.Case
	for i := range raw {
		if raw[i].ID == caseID {
			found = &raw[i]
			break
		}
	}
	if found == nil {
		return DetailView{}, ErrBadTransition
	}

	docs, err := s.docs.List(ctx, api, caseID)
	if err != nil {
		return DetailView{}, err
	}
	msgs, err := s.discussion.List(ctx, api, caseID)
	if err != nil {
		return DetailView{}, err
	}

	s.store.Put(userID, State{Step: StepDetail, CaseID: caseID})

	return DetailView{
		Case:      s.cases.GPCaseView(*found),
		Documents: docs,
		Messages:  msgs,
		Step:      StepDetail,
	}, nil
}

// Clarify envía una pregunta al claimant y devuelve el hilo refrescado.
// No mueve el flujo: el GP sigue en el detalle.
func (s *Service) Clarify(ctx context.Context, api backend.API, userID, content string) ([]backend.Message, error) {
	st := s.stateOf(userID)
	if st.Step != StepDetail {
		return nil, ErrBadTransition
	}
	msgs, err := s.discussion.Post(ctx, api, st.CaseID, content)
	if err != nil {
		if errors.Is(err, discussion.ErrEmptyMessage) {
			return nil, ErrValidation
		}
		return nil, err
	}
	return msgs, nil
}

// Decide registra la decisión final. Guardas: decisión approve|deny y
// comentario no vacío. Con éxito el flujo vuelve a la lista.
func (s *Service) Decide(ctx context.Context, api backend.API, userID, decision, comment string) error {
	st := s.stateOf(userID)
	if st.Step != StepDetail {
		return ErrBadTransition
	}

	decision = strings.ToLower(strings.TrimSpace(decision))
	if decision != "approve" && decision != "deny" {
		return ErrValidation
	}
	if strings.TrimSpace(comment) == "" {
		return ErrValidation
	}

	err := api.SubmitDecision(ctx, st.CaseID, backend.DecisionInput{
		Decision: decision,
		Comment:  strings.TrimSpace(comment),
	})
	if err != nil {
		return err
	}

	// Cerrar el detalle solo si sigue siendo el mismo caso; otro request
	// del mismo usuario pudo haber abierto otro mientras tanto.
	cur := s.stateOf(userID)
	if cur.Step == StepDetail && cur.CaseID == st.CaseID {
		s.store.Put(userID, State{Step: StepList})
	}
	return nil
}

func (s *Service) Back(userID string) State {
	st := State{Step: StepList}
	s.store.Put(userID, st)
	return st
}
