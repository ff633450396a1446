// Package admin implementa el flujo de revisión y asignación del
// administrador: list -> review -> assign -> list. Cada transición la
// dispara una acción explícita y las guardas se validan acá, antes de
// tocar el backend.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

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
	StepList   Step = "list"
	StepReview Step = "review"
	StepAssign Step = "assign"
)

// State es el estado del flujo de UN admin. Rejected acumula los casos
// descartados localmente: el backend no tiene endpoint de rechazo, así que
// el descarte solo filtra la cola pendiente de este usuario.
type State struct {
	Step          Step
	CaseID        int
	ReviewComment string
	Rejected      map[int]bool
}

// Store persiste el estado por usuario.
type Store interface {
	Get(userID string) (State, bool)
	Put(userID string, st State)
	Delete(userID string)
}

type Service struct {
	store Store
	cases *cases.Service
	docs  *documents.Service
	now   func() time.Time
}

func NewService(store Store, casesSvc *cases.Service, docsSvc *documents.Service) *Service {
	return &Service{
		store: store,
		cases: casesSvc,
		docs:  docsSvc,
		now:   time.Now,
	}
}

// DashboardView es la lista completa más la cola pendiente ya filtrada y
// la posición actual del flujo.
type DashboardView struct {
	Cases   []cases.CaseView `json:"cases"`
	Pending []cases.CaseView `json:"pending"`
	Stats   cases.AdminStats `json:"stats"`
	Step    Step             `json:"step"`
	CaseID  int              `json:"case_id,omitempty"`
}

// ReviewView es el caso bajo revisión con sus adjuntos.
type ReviewView struct {
	Case      cases.CaseView     `json:"case"`
	Documents []backend.Document `json:"documents"`
	Step      Step               `json:"step"`
}

// AssignForm son los tres campos obligatorios de la asignación.
type AssignForm struct {
	Specialty string
	GPID      int
	SLADays   int
}

func (s *Service) stateOf(userID string) State {
	st, ok := s.store.Get(userID)
	if !ok {
		st = State{Step: StepList}
	}
	// Rejected se copia: el State que sale de acá es del caller y el set
	// guardado solo cambia vía Put.
	rejected := make(map[int]bool, len(st.Rejected))
	for id, v := range st.Rejected {
		rejected[id] = v
	}
	st.Rejected = rejected
	return st
}

// Dashboard recarga la vista global. La cola pendiente excluye los casos
// rechazados localmente por este admin.
func (s *Service) Dashboard(ctx context.Context, api backend.API, userID string) (DashboardView, error) {
	st := s.stateOf(userID)

	v, err := s.cases.LoadAll(ctx, api)
	if err != nil {
		return DashboardView{}, err
	}

	pending := make([]cases.CaseView, 0)
	for _, cv := range v.Cases {
		if st.Rejected[cv.ID] {
			continue
		}
		if isPendingRaw(cv.RawStatus) {
			pending = append(pending, cv)
		}
	}

	return DashboardView{
		Cases:   v.Cases,
		Pending: pending,
		Stats:   v.Stats,
		Step:    st.Step,
		CaseID:  st.CaseID,
	}, nil
}

// Review abre un caso pendiente: trae detalle y adjuntos y mueve el flujo
// a review.
func (s *Service) Review(ctx context.Context, api backend.API, userID string, caseID int) (ReviewView, error) {
	st := s.stateOf(userID)
	if st.Rejected[caseID] {
		return ReviewView{}, ErrBadTransition
	}

	c, err := api.CaseDetails(ctx, caseID)
	if err != nil {
		return ReviewView{}, err
	}
	// Solo los casos pendientes entran a revisión: un caso ya asignado o
	// cerrado no puede volver a asignarse.
	if !isPendingRaw(c.Status) {
		return ReviewView{}, ErrBadTransition
	}
	docs, err := s.docs.List(ctx, api, caseID)
	if err != nil {
		return ReviewView{}, err
	}

	st.Step = StepReview
	st.CaseID = caseID
	st.ReviewComment = ""
	s.store.Put(userID, st)

	return ReviewView{
		Case:      s.cases.AdminCaseView(c),
		Documents: docs,
		Step:      StepReview,
	}, nil
}

// Advance pasa de review a assign. Guarda: comentario de revisión no vacío.
func (s *Service) Advance(userID, comment string) (State, error) {
	st := s.stateOf(userID)
	if st.Step != StepReview {
		return State{}, ErrBadTransition
	}
	if strings.TrimSpace(comment) == "" {
		return State{}, ErrValidation
	}

	st.Step = StepAssign
	st.ReviewComment = strings.TrimSpace(comment)
	s.store.Put(userID, st)
	return st, nil
}

// Reject descarta el caso en revisión. Guarda: comentario no vacío.
// El descarte es local a este admin, no viaja al backend.
func (s *Service) Reject(userID, comment string) (State, error) {
	st := s.stateOf(userID)
	if st.Step != StepReview {
		return State{}, ErrBadTransition
	}
	if strings.TrimSpace(comment) == "" {
		return State{}, ErrValidation
	}

	st.Rejected[st.CaseID] = true
	st.Step = StepList
	st.CaseID = 0
	st.ReviewComment = ""
	s.store.Put(userID, st)
	return st, nil
}

// Assign ejecuta la asignación. Guardas: especialidad, GP y días de SLA
// presentes. El deadline se calcula acá: ahora + días.
func (s *Service) Assign(ctx context.Context, api backend.API, userID string, form AssignForm) error {
	st := s.stateOf(userID)
	if st.Step != StepAssign {
		return ErrBadTransition
	}
	if strings.TrimSpace(form.Specialty) == "" || form.GPID <= 0 || form.SLADays <= 0 {
		return ErrValidation
	}

	deadline := s.now().Add(time.Duration(form.SLADays) * 24 * time.Hour)
	err := api.AssignGP(ctx, st.CaseID, backend.AssignInput{
		GPID:        form.GPID,
		Specialty:   strings.TrimSpace(form.Specialty),
		SLADeadline: deadline,
	})
	if err != nil {
		return err
	}

	// Aplicar el avance solo si la selección sigue vigente; si otro request
	// del mismo usuario movió el flujo mientras tanto, no pisarlo.
	cur := s.stateOf(userID)
	if cur.Step == StepAssign && cur.CaseID == st.CaseID {
		cur.Step = StepList
		cur.CaseID = 0
		cur.ReviewComment = ""
		s.store.Put(userID, cur)
	}
	return nil
}

// Back vuelve a la lista descartando lo editado. Los rechazos locales se
// conservan.
func (s *Service) Back(userID string) State {
	st := s.stateOf(userID)
	st.Step = StepList
	st.CaseID = 0
	st.ReviewComment = ""
	s.store.Put(userID, st)
	return st
}

// Specialties es el catálogo fijo que ofrece el formulario de asignación.
func Specialties() []string {
	return []string{
		"Cardiology",
		"Dermatology",
		"Neurology",
		"Orthopedics",
		"General Medicine",
	}
}

func isPendingRaw(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", backend.StatusPending, "created":
		return true
	}
	return false
}
