// Package account expone la entrada pública del portal: login, registro y
// el perfil del actor autenticado. No guarda nada; el token vive en el
// navegador y viaja en cada request.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"case-portal/internal/middleware"
	"case-portal/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

// Authenticator son las dos llamadas del backend que no requieren token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (backend.TokenResponse, error)
	Register(ctx context.Context, in backend.RegisterInput) (backend.User, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// RegisterPublicRoutes monta login y register, sin admisión previa.
func RegisterPublicRoutes(r chi.Router, authn Authenticator) {
	r.Post("/login", loginHandler(authn))
	r.Post("/register", registerHandler(authn))
}

// RegisterSessionRoutes monta las rutas que piden un token válido de
// cualquier rol.
func RegisterSessionRoutes(r chi.Router, sessions backend.SessionFunc) {
	r.Get("/users/me", meHandler(sessions))
}

func loginHandler(authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		tok, err := authn.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tok)
	}
}

func registerHandler(authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := authn.Register(r.Context(), backend.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Role:     req.Role,
		})
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func meHandler(sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		u, err := sessions(token).CurrentUser(r.Context())
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
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
