// Package qa implementa la auditoría: list -> expanded -> commenting ->
// list. Expandir trae los adjuntos, comentar requiere un toggle explícito
// y el envío exige decisión good|rework más comentario.
package qa

import (
	"context"
	"errors"
	"strings"

	"case-portal/internal/domain/cases"
	"case-portal/internal/domain/documents"
	"case-portal/internal/ports/backend"
)

var (
	ErrValidation    = errors.New("invalid input")
	ErrBadTransition = errors.New("invalid transition")
)

type Step string

const (
	StepList       Step = "list"
	StepExpanded   Step = "expanded"
	StepCommenting Step = "commenting"
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
	store Store
	cases *cases.Service
	docs  *documents.Service
}

func NewService(store Store, casesSvc *cases.Service, docsSvc *documents.Service) *Service {
	return &Service{store: store, cases: casesSvc, docs: docsSvc}
}

type DashboardView struct {
	Pool   []cases.CaseView `json:"pool"`
	Mine   []cases.CaseView `json:"mine"`
	Stats  cases.QAStats    `json:"stats"`
	Step   Step             `json:"step"`
	CaseID int              `json:"case_id,omitempty"`
}

type ExpandedView struct {
	Case      cases.CaseView     `json:"case"`
	Documents []backend.Document `json:"documents"`
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

	v, err := s.cases.LoadPool(ctx, api)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{Pool: v.Pool, Mine: v.Mine, Stats: v.Stats, Step: st.Step, CaseID: st.CaseID}, nil
}

// Expand abre un caso del pool y trae sus adjuntos.
func (s *Service) Expand(ctx context.Context, api backend.API, userID string, caseID int) (ExpandedView, error) {
	pool, err := api.QACases(ctx)
	if err != nil {
		return ExpandedView{}, err
	}
	var found *backend.Case
	for i := range pool {
		if pool[i].ID == caseID {
			found = &pool[i]
			break
		}
	}
	if found == nil {
		return ExpandedView{}, ErrBadTransition
	}

	docs, err := s.docs.List(ctx, api, caseID)
	if err != nil {
		return ExpandedView{}, err
	}

	s.store.Put(userID, State{Step: StepExpanded, CaseID: caseID})

	return ExpandedView{
		Case:      s.cases.QACaseView(*found),
		Documents: docs,
		Step:      StepExpanded,
	}, nil
}

// ToggleComment alterna entre expanded y commenting.
func (s *Service) ToggleComment(userID string) (State, error) {
	st := s.stateOf(userID)
	switch st.Step {
	case StepExpanded:
		st.Step = StepCommenting
	case StepCommenting:
		st.Step = StepExpanded
	default:
		return State{}, ErrBadTransition
	}
	s.store.Put(userID, st)
	return st, nil
}

// Submit envía el veredicto. Guardas: estar en commenting, decisión
// good|rework y comentario no vacío. good marca el caso aprobado.
func (s *Service) Submit(ctx context.Context, api backend.API, userID, decision, comment string) error {
	st := s.stateOf(userID)
	if st.Step != StepCommenting {
		return ErrBadTransition
	}

	decision = strings.ToLower(strings.TrimSpace(decision))
	if decision != "good" && decision != "rework" {
		return ErrValidation
	}
	if strings.TrimSpace(comment) == "" {
		return ErrValidation
	}

	err := api.SubmitQAFeedback(ctx, st.CaseID, backend.FeedbackInput{
		Feedback: strings.TrimSpace(comment),
		Approved: decision == "good",
	})
	if err != nil {
		return err
	}

	// Colapsar solo si el caso auditado sigue seleccionado.
	cur := s.stateOf(userID)
	if cur.Step == StepCommenting && cur.CaseID == st.CaseID {
		s.store.Put(userID, State{Step: StepList})
	}
	return nil
}

// AssignRandom pide un caso cualquiera del pool.
func (s *Service) AssignRandom(ctx context.Context, api backend.API) (cases.CaseView, error) {
	c, err := api.AssignRandomQA(ctx)
	if err != nil {
		return cases.CaseView{}, err
	}
	return s.cases.QACaseView(c), nil
}

func (s *Service) Back(userID string) State {
	st := State{Step: StepList}
	s.store.Put(userID, st)
	return st
}
