package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/luestilo/gestao-api/internal/application/ports"
)

var _ ports.TokenDenylist = (*MemoryDenylist)(nil)

// MemoryDenylist lista de revocación en memoria del proceso. Se usa cuando no hay Redis configurado;
// con varias réplicas cada una ve solo sus propias revocaciones.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist construye la lista vacía.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if !until.After(now) {
		return nil
	}
	d.entries[jti] = until
	d.purge(now)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !until.After(d.now()) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}

// purge elimina entradas caducadas; se llama con el mutex tomado.
func (d *MemoryDenylist) purge(now time.Time) {
	for jti, until := range d.entries {
		if !until.After(now) {
			delete(d.entries, jti)
		}
	}
}
