// Package session decide la admisión a las vistas por rol a partir del token
// almacenado por el navegador. Acá el chequeo de rol es conveniencia de UX:
// el backend re-valida autorización en cada endpoint privilegiado, así que
// un deny local nunca reemplaza al 403 del servidor.
package session

import (
	"context"
	"strings"

	"case-portal/internal/ports/auth"
)

// Resolver envuelve al decodificador de tokens con la política de admisión.
type Resolver struct {
	tokens auth.TokenResolver
}

func NewResolver(tokens auth.TokenResolver) *Resolver {
	return &Resolver{tokens: tokens}
}

// IsAuthenticated es true sii hay un token presente. No valida nada más.
func (r *Resolver) IsAuthenticated(token string) bool {
	return strings.TrimSpace(token) != ""
}

// ResolveRole decodifica el claim de rol. Token malformado o sin rol se
// trata como no autenticado (el caller decide redirigir, no hay pánico).
func (r *Resolver) ResolveRole(ctx context.Context, token string) (auth.Role, error) {
	claims, err := r.tokens.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// Admit devuelve los claims y allow/deny contra el set de roles permitidos.
// Token ausente o indecodificable deniega para cualquier ruta.
func (r *Resolver) Admit(ctx context.Context, required []auth.Role, token string) (auth.Claims, bool) {
	if !r.IsAuthenticated(token) {
		return auth.Claims{}, false
	}
	claims, err := r.tokens.Resolve(ctx, token)
	if err != nil {
		return auth.Claims{}, false
	}
	for _, role := range required {
		if claims.Role == role {
			return claims, true
		}
	}
	return auth.Claims{}, false
}
