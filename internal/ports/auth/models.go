package auth

import "strings"

// Role del principal. admin saltea todos los chequeos; shelter y user difieren por operación.
type Role string

const (
	RoleUser    Role = "user"
	RoleShelter Role = "shelter"
	RoleAdmin   Role = "admin"
)

// ParseRole normaliza el rol; cualquier valor desconocido cae en user.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleShelter:
		return RoleShelter
	default:
		return RoleUser
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// Actor es el par opaco (id, rol) que consumen los motores de dominio.
type Actor struct {
	ID   string
	Role Role
}

func (c Claims) Actor() Actor {
	return Actor{ID: strings.TrimSpace(c.UserID), Role: c.Role}
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
