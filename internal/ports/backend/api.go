package backend

import (
	"context"
	"io"
)

// API agrupa las capacidades del backend que requieren un token vigente.
// Una implementación está ligada a la sesión de UN actor (el token se inyecta
// al construirla, no viaja por parámetro); así los tests sustituyen sesiones
// sin estado global compartido.
//
// Contrato común: cada llamada es un round trip único, sin retries ni caché.
// Un status no-2xx se devuelve como error tipado con el mensaje extraído del
// body cuando el backend lo provee.
// SessionFunc construye el API ligado al bearer token de un request.
// Los handlers la usan para derivar la sesión del actor admitido.
type SessionFunc func(token string) API

type API interface {
	CurrentUser(ctx context.Context) (User, error)

	// Casos (claimant)
	CreateCase(ctx context.Context, in CreateCaseInput) (Case, error)
	MyCases(ctx context.Context) ([]Case, error)
	ListCases(ctx context.Context) ([]Case, error) // alias GET /cases
	DeleteCase(ctx context.Context, caseID int) error

	// Sub-recursos por caso
	UploadDocument(ctx context.Context, caseID int, filename string, content io.Reader) (Document, error)
	ListDocuments(ctx context.Context, caseID int) ([]Document, error)
	DownloadDocument(ctx context.Context, caseID, fileID int) ([]byte, error)
	ListMessages(ctx context.Context, caseID int) ([]Message, error)
	PostMessage(ctx context.Context, caseID int, content string) (Message, error)

	// Admin
	AdminCases(ctx context.Context) ([]Case, error)
	AdminGPs(ctx context.Context) ([]GP, error)
	CaseDetails(ctx context.Context, caseID int) (Case, error)
	AssignGP(ctx context.Context, caseID int, in AssignInput) error

	// GP
	GPCases(ctx context.Context) ([]Case, error)
	SubmitDecision(ctx context.Context, caseID int, in DecisionInput) error
	ApproveCase(ctx context.Context, caseID int) error // endpoint legacy PUT /gp/approve/{id}

	// QA
	QACases(ctx context.Context) ([]Case, error)
	MyQACases(ctx context.Context) ([]Case, error)
	AssignRandomQA(ctx context.Context) (Case, error)
	SubmitQAFeedback(ctx context.Context, caseID int, in FeedbackInput) error
}
