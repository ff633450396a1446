package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"case-portal/internal/middleware"
	"case-portal/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, sessions backend.SessionFunc) {
	r.Get("/admin-dashboard", dashboardHandler(svc, sessions))

	r.Route("/admin", func(ar chi.Router) {
		ar.Get("/gps", listGPsHandler(sessions))
		ar.Get("/specialties", specialtiesHandler())
		ar.Post("/cases/{caseID}/review", reviewHandler(svc, sessions))
		ar.Post("/review/approve", advanceHandler(svc))
		ar.Post("/review/reject", rejectHandler(svc))
		ar.Post("/assign", assignHandler(svc, sessions))
		ar.Post("/back", backHandler(svc))
	})
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type assignRequest struct {
	Specialty string `json:"specialty"`
	GPID      int    `json:"gp_id"`
	SLADays   int    `json:"sla_days"`
}

func dashboardHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		view, err := svc.Dashboard(r.Context(), sessions(token), claims.UserID)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func listGPsHandler(sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		gps, err := sessions(token).AdminGPs(r.Context())
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gps)
	}
}

func specialtiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Specialties())
	}
}

func reviewHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		view, err := svc.Review(r.Context(), sessions(token), claims.UserID, caseID)
		if err != nil {
			if errors.Is(err, ErrBadTransition) {
				writeError(w, http.StatusConflict, "case not reviewable")
				return
			}
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func advanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		st, err := svc.Advance(claims.UserID, req.Comment)
		if err != nil {
			writeFlowError(w, err, "review comment required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"step": st.Step, "case_id": st.CaseID})
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		st, err := svc.Reject(claims.UserID, req.Comment)
		if err != nil {
			writeFlowError(w, err, "rejection comment required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"step": st.Step})
	}
}

func assignHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		api := sessions(token)
		err := svc.Assign(r.Context(), api, claims.UserID, AssignForm{
			Specialty: req.Specialty,
			GPID:      req.GPID,
			SLADays:   req.SLADays,
		})
		if err != nil {
			writeFlowError(w, err, "specialty, GP and SLA days are required")
			return
		}

		// mutación => recarga completa
		view, err := svc.Dashboard(r.Context(), api, claims.UserID)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func backHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		st := svc.Back(claims.UserID)
		writeJSON(w, http.StatusOK, map[string]any{"step": st.Step})
	}
}

func writeFlowError(w http.ResponseWriter, err error, validationMsg string) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusBadRequest, validationMsg)
	case errors.Is(err, ErrBadTransition):
		writeError(w, http.StatusConflict, "action not available in current step")
	default:
		writeBackendError(w, err)
	}
}

func writeBackendError(w http.ResponseWriter, err error) {
	type statusCoder interface{ HTTPStatus() int }
	var sc statusCoder
	if errors.As(err, &sc) {
		writeError(w, sc.HTTPStatus(), err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeJSON está duplicado a propósito en los handlers de cada módulo para
// no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
