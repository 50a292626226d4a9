// seed puebla la base con un administrador, clientes y productos de prueba.
//
// Uso: go run ./cmd/seed [clientes] [productos]
// Por defecto 20 clientes y 30 productos. El administrador se toma de
// SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD (admin@luestilo.com.br / Admin1234).
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/usecase"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/infrastructure/postgres"
	"github.com/luestilo/gestao-api/pkg/config"
	"github.com/luestilo/gestao-api/pkg/cpf"
	"github.com/luestilo/gestao-api/pkg/logger"
)

var sections = []string{"vestidos", "blusas", "saias", "calças", "acessórios", "calçados"}

func main() {
	nClients, nProducts := argInt(1, 20), argInt(2, 30)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	admin, err := seedAdmin(ctx, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", admin.Email).Msg("administrador listo")

	faker := gofakeit.New(0)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	clients := usecase.NewClientUseCase(postgres.NewClientRepository(pool))
	created := 0
	for i := 0; i < nClients; i++ {
		_, err := clients.Create(ctx, admin.ID, dto.CreateClientRequest{
			Name:  faker.Name(),
			Email: faker.Email(),
			CPF:   cpf.Generate(rng),
			Phone: fmt.Sprintf("%02d9%08d", 11+rng.IntN(88), rng.IntN(100_000_000)),
			City:  ptr(faker.City()),
			State: ptr(faker.StateAbr()),
		})
		if domain.IsConflict(err) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Msg("crear cliente")
		}
		created++
	}
	log.Info().Int("clients", created).Msg("clientes creados")

	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewTxRunner(pool), nil)
	created = 0
	for i := 0; i < nProducts; i++ {
		section := sections[rng.IntN(len(sections))]
		price := decimal.NewFromFloat(faker.Price(19.9, 499.9)).Round(2)
		_, err := products.Create(ctx, admin.ID, dto.CreateProductRequest{
			Description: fmt.Sprintf("%s %s %s", section, faker.Color(), faker.ProductMaterial()),
			Price:       price,
			Barcode:     ptr(faker.Numerify("789##########")),
			Section:     section,
			Stock:       rng.IntN(50),
		})
		if domain.IsConflict(err) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Msg("crear producto")
		}
		created++
	}
	log.Info().Int("products", created).Msg("productos creados")
}

func seedAdmin(ctx context.Context, repo *postgres.UserRepo) (*entity.User, error) {
	email := getenv("SEED_ADMIN_EMAIL", "admin@luestilo.com.br")
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	hash, err := auth.HashPassword(getenv("SEED_ADMIN_PASSWORD", "Admin1234"))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           entity.NewID(),
		Email:        email,
		Username:     "admin",
		PasswordHash: hash,
		FullName:     ptr("Administrador"),
		IsActive:     true,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUsernameAlreadyExists) {
			return nil, fmt.Errorf("el username admin ya existe con otro email: %w", err)
		}
		return nil, err
	}
	return u, nil
}

func argInt(i, def int) int {
	if len(os.Args) <= i {
		return def
	}
	n, err := strconv.Atoi(os.Args[i])
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "argumento %d inválido: %q\n", i, os.Args[i])
		os.Exit(2)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ptr[T any](v T) *T { return &v }
