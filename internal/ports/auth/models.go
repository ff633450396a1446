package auth

import "strings"

// Role es el rol del actor dentro del portal.
// Es el único input de autorización de esta capa; el backend re-valida cada
// endpoint privilegiado, acá el rol solo decide qué vistas se sirven.
type Role string

const (
	RoleClaimant Role = "claimant"
	RoleGP       Role = "gp"
	RoleQA       Role = "qa"
	RoleAdmin    Role = "admin"
)

// ParseRole normaliza el claim crudo del token a un Role conocido.
// Devuelve ("", false) si el valor no es un rol soportado.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleClaimant:
		return RoleClaimant, true
	case RoleGP:
		return RoleGP, true
	case RoleQA:
		return RoleQA, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Email    string
	Role     Role
}
