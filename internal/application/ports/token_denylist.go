package ports

import (
	"context"
	"time"
)

// TokenDenylist registro de tokens revocados (logout y refresh).
// Las entradas caducan solas cuando el token original expira.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
