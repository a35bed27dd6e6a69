package auth

import "strings"

// Role es el rol clínico del actor autenticado. Enum cerrado: la autorización
// de transiciones se decide por tabla, nunca comparando strings sueltos.
type Role string

const (
	RoleDoctor     Role = "doctor"
	RolePharmacist Role = "pharmacist"
	RoleNurse      Role = "nurse"
)

// ParseRole valida un rol recibido por header o token.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDoctor:
		return RoleDoctor, true
	case RolePharmacist:
		return RolePharmacist, true
	case RoleNurse:
		return RoleNurse, true
	default:
		return "", false
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}
