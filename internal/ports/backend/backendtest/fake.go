// Package backendtest provee un backend.API en memoria para tests.
// Simula las transiciones del backend real lo justo para ejercitar los
// flujos del portal (asignar cambia el estado, la decisión del GP manda el
// caso al pool de QA, el feedback de QA lo cierra o lo devuelve).
package backendtest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"case-portal/internal/ports/backend"
)

var ErrNotFound = errors.New("backendtest: not found")

// Fake implementa backend.API sobre estado mutable protegido por mutex.
// Errs permite inyectar una falla por operación (clave = nombre del método).
// Calls registra cada operación ejecutada, en orden.
type Fake struct {
	mu sync.Mutex

	User  backend.User
	Cases []backend.Case
	GPs   []backend.GP

	DocsByCase     map[int][]backend.Document
	MessagesByCase map[int][]backend.Message

	Errs  map[string]error
	Calls []string

	nextCaseID int
	nextSubID  int
	now        time.Time
}

func New() *Fake {
	return &Fake{
		DocsByCase:     map[int][]backend.Document{},
		MessagesByCase: map[int][]backend.Message{},
		Errs:           map[string]error{},
		nextCaseID:     1,
		nextSubID:      1,
		now:            time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

// CallCount cuenta cuántas veces se ejecutó una operación.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// SeedCase agrega un caso con id explícito y corre el contador interno.
func (f *Fake) SeedCase(c backend.Case) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cases = append(f.Cases, c)
	if c.ID >= f.nextCaseID {
		f.nextCaseID = c.ID + 1
	}
}

// record anota la llamada y devuelve el error inyectado para esa operación,
// si hay uno.
func (f *Fake) record(op string) error {
	f.Calls = append(f.Calls, op)
	return f.Errs[op]
}

func (f *Fake) findCase(id int) (int, error) {
	for i := range f.Cases {
		if f.Cases[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("case %d: %w", id, ErrNotFound)
}

func (f *Fake) CurrentUser(ctx context.Context) (backend.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CurrentUser"); err != nil {
		return backend.User{}, err
	}
	return f.User, nil
}

func (f *Fake) CreateCase(ctx context.Context, in backend.CreateCaseInput) (backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateCase"); err != nil {
		return backend.Case{}, err
	}
	c := backend.Case{
		ID:          f.nextCaseID,
		ClaimantID:  f.User.ID,
		Description: in.Description,
		DateOfBirth: in.DateOfBirth,
		Status:      backend.StatusPending,
		CreatedAt:   f.now,
	}
	f.nextCaseID++
	f.Cases = append(f.Cases, c)
	return c, nil
}

func (f *Fake) MyCases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("MyCases"); err != nil {
		return nil, err
	}
	out := make([]backend.Case, 0)
	for _, c := range f.Cases {
		if c.ClaimantID == f.User.ID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) ListCases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListCases"); err != nil {
		return nil, err
	}
	return append([]backend.Case(nil), f.Cases...), nil
}

func (f *Fake) DeleteCase(ctx context.Context, caseID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteCase"); err != nil {
		return err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return err
	}
	if f.Cases[i].Status != backend.StatusPending {
		return errors.New("backendtest: case is not pending")
	}
	f.Cases = append(f.Cases[:i], f.Cases[i+1:]...)
	return nil
}

func (f *Fake) UploadDocument(ctx context.Context, caseID int, filename string, content io.Reader) (backend.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UploadDocument"); err != nil {
		return backend.Document{}, err
	}
	if _, err := f.findCase(caseID); err != nil {
		return backend.Document{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return backend.Document{}, err
	}
	d := backend.Document{ID: f.nextSubID, CaseID: caseID, Filename: filename, UploadedAt: f.now}
	f.nextSubID++
	f.DocsByCase[caseID] = append(f.DocsByCase[caseID], d)
	return d, nil
}

func (f *Fake) ListDocuments(ctx context.Context, caseID int) ([]backend.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListDocuments"); err != nil {
		return nil, err
	}
	return append([]backend.Document(nil), f.DocsByCase[caseID]...), nil
}

func (f *Fake) DownloadDocument(ctx context.Context, caseID, fileID int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DownloadDocument"); err != nil {
		return nil, err
	}
	for _, d := range f.DocsByCase[caseID] {
		if d.ID == fileID {
			return []byte("contenido-" + d.Filename), nil
		}
	}
	return nil, ErrNotFound
}

func (f *Fake) ListMessages(ctx context.Context, caseID int) ([]backend.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListMessages"); err != nil {
		return nil, err
	}
	return append([]backend.Message(nil), f.MessagesByCase[caseID]...), nil
}

func (f *Fake) PostMessage(ctx context.Context, caseID int, content string) (backend.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PostMessage"); err != nil {
		return backend.Message{}, err
	}
	if _, err := f.findCase(caseID); err != nil {
		return backend.Message{}, err
	}
	m := backend.Message{
		ID:             f.nextSubID,
		CaseID:         caseID,
		SenderUsername: f.User.Username,
		SenderRole:     f.User.Role,
		Content:        content,
		Timestamp:      f.now,
	}
	f.nextSubID++
	f.MessagesByCase[caseID] = append(f.MessagesByCase[caseID], m)
	return m, nil
}

func (f *Fake) AdminCases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AdminCases"); err != nil {
		return nil, err
	}
	return append([]backend.Case(nil), f.Cases...), nil
}

func (f *Fake) AdminGPs(ctx context.Context) ([]backend.GP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AdminGPs"); err != nil {
		return nil, err
	}
	return append([]backend.GP(nil), f.GPs...), nil
}

func (f *Fake) CaseDetails(ctx context.Context, caseID int) (backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CaseDetails"); err != nil {
		return backend.Case{}, err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return backend.Case{}, err
	}
	return f.Cases[i], nil
}

func (f *Fake) AssignGP(ctx context.Context, caseID int, in backend.AssignInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AssignGP"); err != nil {
		return err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return err
	}
	f.Cases[i].Status = backend.StatusAssigned
	f.Cases[i].AssignedGPID = in.GPID
	f.Cases[i].Specialty = in.Specialty
	deadline := in.SLADeadline
	f.Cases[i].SLADeadline = &deadline
	return nil
}

func (f *Fake) GPCases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GPCases"); err != nil {
		return nil, err
	}
	out := make([]backend.Case, 0)
	for _, c := range f.Cases {
		if c.AssignedGPID == f.User.ID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) SubmitDecision(ctx context.Context, caseID int, in backend.DecisionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SubmitDecision"); err != nil {
		return err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return err
	}
	f.Cases[i].GPDecisionComment = in.Comment
	if in.Decision == "approve" {
		f.Cases[i].Status = backend.StatusQAPending
	} else {
		f.Cases[i].Status = backend.StatusReturned
	}
	return nil
}

func (f *Fake) ApproveCase(ctx context.Context, caseID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ApproveCase"); err != nil {
		return err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return err
	}
	f.Cases[i].Status = backend.StatusQAPending
	return nil
}

func (f *Fake) QACases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("QACases"); err != nil {
		return nil, err
	}
	out := make([]backend.Case, 0)
	for _, c := range f.Cases {
		if c.Status == backend.StatusQAPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) MyQACases(ctx context.Context) ([]backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("MyQACases"); err != nil {
		return nil, err
	}
	out := make([]backend.Case, 0)
	for _, c := range f.Cases {
		if c.Status == backend.StatusCompleted || c.Status == backend.StatusReturned {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) AssignRandomQA(ctx context.Context) (backend.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AssignRandomQA"); err != nil {
		return backend.Case{}, err
	}
	for _, c := range f.Cases {
		if c.Status == backend.StatusQAPending {
			return c, nil
		}
	}
	return backend.Case{}, errors.New("backendtest: no QA cases available")
}

func (f *Fake) SubmitQAFeedback(ctx context.Context, caseID int, in backend.FeedbackInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SubmitQAFeedback"); err != nil {
		return err
	}
	i, err := f.findCase(caseID)
	if err != nil {
		return err
	}
	f.Cases[i].QAFeedback = in.Feedback
	if in.Approved {
		f.Cases[i].Status = backend.StatusCompleted
	} else {
		f.Cases[i].Status = backend.StatusReturned
	}
	return nil
}

var _ backend.API = (*Fake)(nil)
