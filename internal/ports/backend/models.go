package backend

import "time"

// Estados crudos del caso tal como los reporta el backend.
// La vista los normaliza a vocabulario de display; acá viajan tal cual.
const (
	StatusPending   = "pending"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
	StatusReturned  = "returned"
	StatusQAPending = "qa_pending"
)

// Case es la unidad central del workflow: un reclamo moviéndose por
// creación → asignación → decisión GP → auditoría QA.
type Case struct {
	ID                int        `json:"id"`
	ClaimantID        int        `json:"claimant_id"`
	Description       string     `json:"description"`
	DateOfBirth       string     `json:"date_of_birth"` // YYYY-MM-DD
	Status            string     `json:"status"`
	Specialty         string     `json:"specialty,omitempty"`
	AssignedGPID      int        `json:"assigned_gp_id,omitempty"` // 0 = sin asignar
	SLADeadline       *time.Time `json:"sla_deadline,omitempty"`
	QAFeedback        string     `json:"qa_feedback,omitempty"`
	GPDecisionComment string     `json:"gp_decision_comment,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Document es un adjunto de un caso. Inmutable una vez subido.
type Document struct {
	ID         int       `json:"id"`
	CaseID     int       `json:"case_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Message es un mensaje del hilo de discusión de un caso. Append-only,
// ordenado por timestamp ascendente.
type Message struct {
	ID             int       `json:"id"`
	CaseID         int       `json:"case_id"`
	SenderUsername string    `json:"sender_username"`
	SenderRole     string    `json:"sender_role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// User es la identidad que devuelve /users/me. Read-only para esta capa.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// GP es una entrada del roster de médicos.
type GP struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse es la respuesta de /login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

type CreateCaseInput struct {
	Description string `json:"description"`
	DateOfBirth string `json:"date_of_birth"`
}

type AssignInput struct {
	GPID        int       `json:"gp_id"`
	Specialty   string    `json:"specialty"`
	SLADeadline time.Time `json:"sla_deadline"`
}

type DecisionInput struct {
	Decision string `json:"decision"` // approve | deny
	Comment  string `json:"comment"`
}

type FeedbackInput struct {
	Feedback string `json:"feedback"`
	Approved bool   `json:"approved"`
}
