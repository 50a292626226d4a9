package entity

import (
	"time"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// User representa un operador del sistema (vendedor o administrador).
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     *string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch campos modificables de un usuario. PasswordHash llega ya hasheado desde el caso de uso.
type UserPatch struct {
	Email        optional.Field[string]
	Username     optional.Field[string]
	FullName     optional.Field[string]
	PasswordHash optional.Field[string]
	IsActive     optional.Field[bool]
	IsAdmin      optional.Field[bool]
}

// Apply devuelve una copia del usuario con los campos presentes sobrescritos.
func (u User) Apply(p UserPatch, now time.Time) User {
	optional.Apply(&u.Email, p.Email)
	optional.Apply(&u.Username, p.Username)
	optional.ApplyNullable(&u.FullName, p.FullName)
	optional.Apply(&u.PasswordHash, p.PasswordHash)
	optional.Apply(&u.IsActive, p.IsActive)
	optional.Apply(&u.IsAdmin, p.IsAdmin)
	u.UpdatedAt = now
	return u
}
