// Package tokenstore guarda los identificadores (jti) de tokens revocados.
package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/pkg/config"
)

var _ ports.TokenDenylist = (*RedisDenylist)(nil)

const keyPrefix = "auth:revoked:"

// RedisDenylist lista de revocación en Redis; cada clave caduca con el token.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist conecta con Redis y comprueba la conexión.
func NewRedisDenylist(ctx context.Context, cfg config.RedisConfig) (*RedisDenylist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return &RedisDenylist{client: client}, nil
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // ya expiró, nada que revocar
	}
	if err := d.client.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis: revocar token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis: consultar token: %w", err)
	}
	return n > 0, nil
}

// Close libera el cliente.
func (d *RedisDenylist) Close() error {
	return d.client.Close()
}
