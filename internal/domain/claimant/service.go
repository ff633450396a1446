// Package claimant implementa el dashboard del reclamante: pestañas por
// estado, alta de caso con adjuntos, hilo de discusión y borrado mientras
// el caso sigue pendiente. No hay máquina de pasos: es lista <-> detalle.
package claimant

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
	ErrValidation   = errors.New("invalid input")
	ErrReplyBlocked = errors.New("reply not allowed yet")
)

// State guarda lo único que el claimant muta localmente: los adjuntos
// ocultados. El ocultado no viaja al backend; un reload del detalle en
// otra sesión vuelve a mostrarlos.
type State struct {
	HiddenDocs map[int]map[int]bool
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

// CreateForm es el alta de caso. Ambos campos son obligatorios.
type CreateForm struct {
	Description string
	DateOfBirth string
}

// CreateResult junta el caso creado con el resultado por archivo de la
// subida. Si un adjunto falla, el caso igual existe.
type CreateResult struct {
	Case    cases.CaseView           `json:"case"`
	Uploads []documents.UploadResult `json:"uploads"`
}

// DetailView es el detalle de un caso propio: adjuntos visibles, hilo y
// las pestañas de comentarios de GP y QA cuando existen.
type DetailView struct {
	Case       cases.CaseView     `json:"case"`
	Documents  []backend.Document `json:"documents"`
	Messages   []backend.Message  `json:"messages"`
	CanReply   bool               `json:"can_reply"`
	GPComment  string             `json:"gp_comment,omitempty"`
	QAFeedback string             `json:"qa_feedback,omitempty"`
}

func (s *Service) stateOf(userID string) State {
	st, ok := s.store.Get(userID)
	if !ok {
		st = State{}
	}
	if st.HiddenDocs == nil {
		st.HiddenDocs = map[int]map[int]bool{}
	}
	return st
}

func (s *Service) Dashboard(ctx context.Context, api backend.API) (cases.ClaimantView, error) {
	return s.cases.LoadMine(ctx, api)
}

// Create da de alta el caso y sube los adjuntos en orden. Un archivo
// rechazado o fallido no revierte nada: se reporta por archivo.
func (s *Service) Create(ctx context.Context, api backend.API, form CreateForm, files []documents.FileInput) (CreateResult, error) {
	if strings.TrimSpace(form.Description) == "" || strings.TrimSpace(form.DateOfBirth) == "" {
		return CreateResult{}, ErrValidation
	}

	c, err := api.CreateCase(ctx, backend.CreateCaseInput{
		Description: strings.TrimSpace(form.Description),
		DateOfBirth: strings.TrimSpace(form.DateOfBirth),
	})
	if err != nil {
		return CreateResult{}, err
	}

	results := s.docs.UploadBatch(ctx, api, c.ID, files)
	return CreateResult{Case: s.cases.ClaimantCaseView(c), Uploads: results}, nil
}

// Detail arma el agregado del caso: adjuntos (menos los ocultados), hilo
// ordenado y la regla de respuesta.
func (s *Service) Detail(ctx context.Context, api backend.API, userID string, caseID int) (DetailView, error) {
	raw, err := api.MyCases(ctx)
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
		return DetailView{}, ErrValidation
	}

	docs, err := s.docs.List(ctx, api, caseID)
	if err != nil {
		return DetailView{}, err
	}
	msgs, err := s.discussion.List(ctx, api, caseID)
	if err != nil {
		return DetailView{}, err
	}

	st := s.stateOf(userID)
	visible := make([]backend.Document, 0, len(docs))
	for _, d := range docs {
		if st.HiddenDocs[caseID][d.ID] {
			continue
		}
		visible = append(visible, d)
	}

	return DetailView{
		Case:       s.cases.ClaimantCaseView(*found),
		Documents:  visible,
		Messages:   msgs,
		CanReply:   discussion.CanReply(msgs, "claimant"),
		GPComment:  found.GPDecisionComment,
		QAFeedback: found.QAFeedback,
	}, nil
}

// Reply agrega al hilo. Guarda: el claimant solo responde cuando ya hay
// un mensaje de GP.
func (s *Service) Reply(ctx context.Context, api backend.API, caseID int, content string) ([]backend.Message, error) {
	msgs, err := s.discussion.List(ctx, api, caseID)
	if err != nil {
		return nil, err
	}
	if !discussion.CanReply(msgs, "claimant") {
		return nil, ErrReplyBlocked
	}
	out, err := s.discussion.Post(ctx, api, caseID, content)
	if err != nil {
		if errors.Is(err, discussion.ErrEmptyMessage) {
			return nil, ErrValidation
		}
		return nil, err
	}
	return out, nil
}

// Delete borra el caso. El backend solo lo acepta mientras está pendiente;
// el error viaja tal cual al caller.
func (s *Service) Delete(ctx context.Context, api backend.API, userID string, caseID int) error {
	if err := api.DeleteCase(ctx, caseID); err != nil {
		return err
	}
	st := s.stateOf(userID)
	delete(st.HiddenDocs, caseID)
	s.store.Put(userID, st)
	return nil
}

// HideDocument oculta un adjunto solo en la vista de este usuario. No es
// un borrado: el documento sigue en el backend y reaparece en cualquier
// otra sesión.
func (s *Service) HideDocument(userID string, caseID, fileID int) {
	st := s.stateOf(userID)
	if st.HiddenDocs[caseID] == nil {
		st.HiddenDocs[caseID] = map[int]bool{}
	}
	st.HiddenDocs[caseID][fileID] = true
	s.store.Put(userID, st)
}

// Download trae el binario de un adjunto propio.
func (s *Service) Download(ctx context.Context, api backend.API, caseID, fileID int) ([]byte, error) {
	return s.docs.Download(ctx, api, caseID, fileID)
}
