package qa

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
	r.Get("/qa-dashboard", dashboardHandler(svc, sessions))

	r.Route("/qa", func(qr chi.Router) {
		qr.Post("/cases/{caseID}/expand", expandHandler(svc, sessions))
		qr.Post("/comment-toggle", toggleHandler(svc))
		qr.Post("/feedback", feedbackHandler(svc, sessions))
		qr.Post("/assign-random", assignRandomHandler(svc, sessions))
		qr.Post("/back", backHandler(svc))
	})
}

type feedbackRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
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

func expandHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		view, err := svc.Expand(r.Context(), sessions(token), claims.UserID, caseID)
		if err != nil {
			if errors.Is(err, ErrBadTransition) {
				writeError(w, http.StatusNotFound, "case not in QA pool")
				return
			}
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func toggleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		st, err := svc.ToggleComment(claims.UserID)
		if err != nil {
			writeError(w, http.StatusConflict, "nothing expanded to comment on")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"step": st.Step, "case_id": st.CaseID})
	}
}

func feedbackHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		api := sessions(token)
		if err := svc.Submit(r.Context(), api, claims.UserID, req.Decision, req.Comment); err != nil {
			writeFlowError(w, err, "decision (good|rework) and comment are required")
			return
		}

		// mutación => recarga completa del pool
		view, err := svc.Dashboard(r.Context(), api, claims.UserID)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func assignRandomHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		cv, err := svc.AssignRandom(r.Context(), sessions(token))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cv)
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
