// Package cases carga la lista de casos visible para el actor actual y
// deriva los contadores de cada dashboard. La recarga siempre es completa:
// tras cualquier mutación el caller vuelve a llamar al Load correspondiente,
// no hay parches locales ni sync incremental.
package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"case-portal/internal/domain/status"
	"case-portal/internal/ports/backend"
)

// Service deriva las vistas por rol. El único estado propio es el roster de
// GPs cacheado (id -> username) para el cruce en la vista de admin; expira
// solo para no mostrar nombres viejos indefinidamente.
type Service struct {
	roster *expirable.LRU[int, string]
	now    func() time.Time
}

func NewService() *Service {
	return &Service{
		roster: expirable.NewLRU[int, string](256, nil, 5*time.Minute),
		now:    time.Now,
	}
}

// LoadMine arma las pestañas del claimant: created (pending o sin estado),
// active (assigned), closed (completed o returned).
func (s *Service) LoadMine(ctx context.Context, api backend.API) (ClaimantView, error) {
	raw, err := api.MyCases(ctx)
	if err != nil {
		return ClaimantView{}, err
	}

	v := ClaimantView{
		Created: make([]CaseView, 0),
		Active:  make([]CaseView, 0),
		Closed:  make([]CaseView, 0),
	}
	for _, c := range raw {
		cv := s.toView(c, status.ViewerClaimant)
		switch canonical(c.Status) {
		case backend.StatusAssigned:
			v.Active = append(v.Active, cv)
		case backend.StatusCompleted, backend.StatusReturned:
			v.Closed = append(v.Closed, cv)
		default:
			v.Created = append(v.Created, cv)
		}
	}
	v.Stats = ClaimantStats{Created: len(v.Created), Active: len(v.Active), Closed: len(v.Closed)}
	return v, nil
}

// LoadAll es la vista global del admin, con el GP asignado cruzado a nombre.
func (s *Service) LoadAll(ctx context.Context, api backend.API) (AdminView, error) {
	raw, err := api.AdminCases(ctx)
	if err != nil {
		return AdminView{}, err
	}

	v := AdminView{Cases: make([]CaseView, 0, len(raw))}
	rosterFetched := false
	for _, c := range raw {
		cv := s.toView(c, status.ViewerAdmin)
		if c.AssignedGPID != 0 {
			cv.GPName = s.gpName(ctx, api, c.AssignedGPID, &rosterFetched)
		}
		v.Cases = append(v.Cases, cv)

		v.Stats.TotalCreated++
		switch canonical(c.Status) {
		case backend.StatusAssigned:
			v.Stats.Allotted++
		case backend.StatusCompleted:
			v.Stats.Closed++
			v.Stats.Approved++
			v.Stats.ReadyToGo++
		case backend.StatusReturned:
			v.Stats.Closed++
			v.Stats.Rework++
		}
	}
	return v, nil
}

// LoadAssigned es la bandeja del GP, con días de SLA restantes.
func (s *Service) LoadAssigned(ctx context.Context, api backend.API) (GPView, error) {
	raw, err := api.GPCases(ctx)
	if err != nil {
		return GPView{}, err
	}

	v := GPView{Cases: make([]CaseView, 0, len(raw))}
	for _, c := range raw {
		cv := s.toView(c, status.ViewerGP)
		if c.SLADeadline != nil {
			left := daysLeft(*c.SLADeadline, s.now())
			cv.SLADaysLeft = &left
		}
		v.Cases = append(v.Cases, cv)

		v.Stats.Allotted++
		switch canonical(c.Status) {
		case backend.StatusAssigned:
			v.Stats.Pending++
		case backend.StatusCompleted:
			v.Stats.Approved++
		case backend.StatusReturned:
			v.Stats.Rejected++
		}
	}
	return v, nil
}

// LoadPool junta el pool compartido de QA y los casos ya resueltos.
func (s *Service) LoadPool(ctx context.Context, api backend.API) (QAView, error) {
	pool, err := api.QACases(ctx)
	if err != nil {
		return QAView{}, err
	}
	mine, err := api.MyQACases(ctx)
	if err != nil {
		return QAView{}, err
	}

	v := QAView{Pool: make([]CaseView, 0, len(pool)), Mine: make([]CaseView, 0, len(mine))}
	for _, c := range pool {
		v.Pool = append(v.Pool, s.toView(c, status.ViewerQA))
		v.Stats.Submitted++
	}
	for _, c := range mine {
		v.Mine = append(v.Mine, s.toView(c, status.ViewerQA))
		v.Stats.Submitted++
		switch canonical(c.Status) {
		case backend.StatusCompleted:
			v.Stats.ReadyToGo++
		case backend.StatusReturned:
			v.Stats.Rework++
		}
	}
	return v, nil
}

// AdminCaseView proyecta un caso suelto al vocabulario del admin. La usa
// el flujo de revisión para el detalle.
func (s *Service) AdminCaseView(c backend.Case) CaseView {
	return s.toView(c, status.ViewerAdmin)
}

// ClaimantCaseView proyecta un caso suelto a los badges del claimant.
func (s *Service) ClaimantCaseView(c backend.Case) CaseView {
	return s.toView(c, status.ViewerClaimant)
}

// QACaseView proyecta un caso suelto al vocabulario de QA.
func (s *Service) QACaseView(c backend.Case) CaseView {
	return s.toView(c, status.ViewerQA)
}

// GPCaseView proyecta un caso suelto al vocabulario del GP.
func (s *Service) GPCaseView(c backend.Case) CaseView {
	cv := s.toView(c, status.ViewerGP)
	if c.SLADeadline != nil {
		left := daysLeft(*c.SLADeadline, s.now())
		cv.SLADaysLeft = &left
	}
	return cv
}

func (s *Service) toView(c backend.Case, viewer status.Viewer) CaseView {
	return CaseView{
		ID:          c.ID,
		Description: c.Description,
		DateOfBirth: c.DateOfBirth,
		RawStatus:   c.Status,
		StatusLabel: status.Normalize(c.Status, viewer),
		Specialty:   c.Specialty,
		GPID:        c.AssignedGPID,
		SLADeadline: c.SLADeadline,
		QAFeedback:  c.QAFeedback,
		GPComment:   c.GPDecisionComment,
		CreatedAt:   c.CreatedAt,
	}
}

// gpName resuelve el id contra el roster cacheado. El roster se trae a lo
// sumo una vez por Load; si el fetch falla o el id no aparece, degrada al
// placeholder en vez de fallar la vista.
func (s *Service) gpName(ctx context.Context, api backend.API, gpID int, fetched *bool) string {
	if name, ok := s.roster.Get(gpID); ok {
		return name
	}
	if !*fetched {
		*fetched = true
		if gps, err := api.AdminGPs(ctx); err == nil {
			for _, gp := range gps {
				s.roster.Add(gp.ID, gp.Username)
			}
		}
		if name, ok := s.roster.Get(gpID); ok {
			return name
		}
	}
	return fmt.Sprintf("GP #%d", gpID)
}

func canonical(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// daysLeft redondea hacia arriba y nunca baja de cero.
func daysLeft(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int((d + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	return days
}
