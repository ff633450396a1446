// Package localjwt decodifica el payload del bearer token SIN verificar firma.
// El token es opaco para el portal: la verificación criptográfica ocurre en el
// backend en cada llamada. Acá solo se extrae el claim de rol para decidir qué
// dashboard servir: conveniencia de UX, no un límite de seguridad.
package localjwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"case-portal/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrTokenMalformed = errors.New("token malformed")
	ErrRoleMissing    = errors.New("token missing role claim")
)

// Resolver implementa auth.TokenResolver decodificando el JWT localmente.
type Resolver struct {
	parser *jwt.Parser
}

func NewResolver() *Resolver {
	return &Resolver{parser: jwt.NewParser()}
}

func (r *Resolver) Resolve(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims := jwt.MapClaims{}
	// ParseUnverified: decode-only, sin firma. Ver doc del package.
	if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	role, ok := auth.ParseRole(stringClaim(claims, "role"))
	if !ok {
		return auth.Claims{}, ErrRoleMissing
	}

	out := auth.Claims{
		UserID:   stringClaim(claims, "sub"),
		Username: stringClaim(claims, "username"),
		Email:    stringClaim(claims, "email"),
		Role:     role,
	}
	if out.UserID == "" {
		// Algunos emisores mandan el id en user_id en vez de sub.
		out.UserID = stringClaim(claims, "user_id")
	}
	if out.UserID == "" {
		return auth.Claims{}, errors.New("token missing subject")
	}

	return out, nil
}

func stringClaim(m jwt.MapClaims, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// ids numéricos llegan como float64 vía encoding/json
		return strings.TrimSpace(fmt.Sprintf("%.0f", s))
	}
	return ""
}
