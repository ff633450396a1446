package cases

import "time"

// CaseView es un caso ya listo para pantalla: estado traducido al
// vocabulario del viewer y GP cruzado a nombre visible.
type CaseView struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	DateOfBirth string     `json:"date_of_birth"`
	RawStatus   string     `json:"raw_status"`
	StatusLabel string     `json:"status_label"`
	Specialty   string     `json:"specialty,omitempty"`
	GPID        int        `json:"gp_id,omitempty"`
	GPName      string     `json:"gp_name,omitempty"`
	SLADeadline *time.Time `json:"sla_deadline,omitempty"`
	SLADaysLeft *int       `json:"sla_days_left,omitempty"`
	QAFeedback  string     `json:"qa_feedback,omitempty"`
	GPComment   string     `json:"gp_comment,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ClaimantView son las tres pestañas del dashboard del claimant.
type ClaimantView struct {
	Created []CaseView    `json:"created"`
	Active  []CaseView    `json:"active"`
	Closed  []CaseView    `json:"closed"`
	Stats   ClaimantStats `json:"stats"`
}

type ClaimantStats struct {
	Created int `json:"created"`
	Active  int `json:"active"`
	Closed  int `json:"closed"`
}

// AdminView es la lista completa con contadores globales.
type AdminView struct {
	Cases []CaseView `json:"cases"`
	Stats AdminStats `json:"stats"`
}

type AdminStats struct {
	TotalCreated int `json:"total_created"`
	Allotted     int `json:"allotted"`
	Closed       int `json:"closed"`
	Approved     int `json:"approved"`
	Rework       int `json:"rework"`
	ReadyToGo    int `json:"ready_to_go"`
}

// GPView son los casos asignados al GP autenticado.
type GPView struct {
	Cases []CaseView `json:"cases"`
	Stats GPStats    `json:"stats"`
}

type GPStats struct {
	Allotted int `json:"allotted"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// QAView junta el pool compartido y los casos ya trabajados por QA.
type QAView struct {
	Pool  []CaseView `json:"pool"`
	Mine  []CaseView `json:"mine"`
	Stats QAStats    `json:"stats"`
}

type QAStats struct {
	Submitted int `json:"submitted"`
	Rework    int `json:"rework"`
	ReadyToGo int `json:"ready_to_go"`
}
