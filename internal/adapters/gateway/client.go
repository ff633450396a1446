// Package gateway implementa backend.API contra la REST API remota de gestión
// de casos. Un método tipado por endpoint; auth por header Bearer; los errores
// se normalizan a *APIError con el mensaje del campo "detail" del body.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"case-portal/internal/platform/httpclient"
	"case-portal/internal/ports/backend"
)

// Config del cliente del backend.
// BaseURL normalmente viene de env en quien lo instancia (main/router).
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client es la parte no autenticada del gateway (login/register).
// Para todo lo demás se construye una Session con ForToken.
type Client struct {
	hc *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("gateway: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	return &Client{hc: hc}, nil
}

// APIError es una respuesta no-2xx del backend, con mensaje humano.
// Detail sale del campo "detail" del body; si el body no se puede parsear,
// queda el fallback genérico de la llamada.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// HTTPStatus expone el status original para que los handlers lo propaguen
// sin importar este paquete.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Login canjea credenciales por un token (form-encoded, estilo OAuth2:
// el email viaja en el campo username).
func (c *Client) Login(ctx context.Context, email, password string) (backend.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out backend.TokenResponse
	if err := c.hc.DoForm(ctx, "/login", nil, form, &out); err != nil {
		return backend.TokenResponse{}, normalizeErr(err, "login failed")
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in backend.RegisterInput) (backend.User, error) {
	var out backend.User
	if err := c.hc.DoJSON(ctx, "POST", "/register", nil, in, &out); err != nil {
		return backend.User{}, normalizeErr(err, "register failed")
	}
	return out, nil
}

// ForToken liga el cliente a la sesión de un actor. La Session resultante
// implementa backend.API; el token se fija acá una sola vez (init en login,
// teardown descartando la Session) en lugar de vivir en un global mutable.
func (c *Client) ForToken(token string) *Session {
	return &Session{c: c, token: strings.TrimSpace(token)}
}

// Session es el gateway autenticado de UN actor.
type Session struct {
	c     *Client
	token string
}

// compile-time check: Session cubre todo el contrato del backend.
var _ backend.API = (*Session)(nil)

func (s *Session) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.token}
}

func (s *Session) CurrentUser(ctx context.Context) (backend.User, error) {
	var out backend.User
	if err := s.c.hc.DoJSON(ctx, "GET", "/users/me", s.headers(), nil, &out); err != nil {
		return backend.User{}, normalizeErr(err, "failed to fetch current user")
	}
	return out, nil
}

// normalizeErr convierte el error de transporte en el error tipado de esta
// capa. Regla: detail del body si existe, sino el fallback de la llamada.
// Errores de red (sin respuesta HTTP) se envuelven con el mismo fallback.
func normalizeErr(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return &APIError{StatusCode: he.StatusCode, Detail: detailFrom(he.Body, fallback)}
	}
	return fmt.Errorf("%s: %w", fallback, err)
}

func detailFrom(body, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if d := strings.TrimSpace(payload.Detail); d != "" {
			return d
		}
	}
	return fallback
}
