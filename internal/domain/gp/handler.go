package gp

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
	r.Get("/gp-dashboard", dashboardHandler(svc, sessions))

	r.Route("/gp", func(gr chi.Router) {
		gr.Post("/cases/{caseID}/view", openHandler(svc, sessions))
		gr.Post("/clarify", clarifyHandler(svc, sessions))
		gr.Post("/decision", decisionHandler(svc, sessions))
		gr.Post("/back", backHandler(svc))
	})
}

type clarifyRequest struct {
	Content string `json:"content"`
}

type decisionRequest struct {
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

func openHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		view, err := svc.Open(r.Context(), sessions(token), claims.UserID, caseID)
		if err != nil {
			if errors.Is(err, ErrBadTransition) {
				writeError(w, http.StatusNotFound, "case not assigned to you")
				return
			}
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func clarifyHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		var req clarifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		msgs, err := svc.Clarify(r.Context(), sessions(token), claims.UserID, req.Content)
		if err != nil {
			writeFlowError(w, err, "clarification message required")
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func decisionHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		var req decisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		api := sessions(token)
		if err := svc.Decide(r.Context(), api, claims.UserID, req.Decision, req.Comment); err != nil {
			writeFlowError(w, err, "decision and comment are required")
			return
		}

		// mutación => recarga completa de la bandeja
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
