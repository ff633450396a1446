package auth

import "context"

// TokenResolver decodifica un bearer token y devuelve claims o error.
// "Resolver" y no "Verifier": esta capa NO verifica firma; la confianza
// real vive en el backend, que re-chequea el token en cada llamada.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (Claims, error)
}
