// seed inserts a LOCAL admin and a regular test user into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/password"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123!"

type userSpec struct {
	email   string
	name    string
	role    domain.Role
	country string
}

var users = []userSpec{
	{"admin@test.local", "Seed Admin", domain.RoleAdmin, "KR"},
	{"seed@test.local", "Seed User", domain.RoleUser, "US"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set (run: direnv allow)")
	}

	pool, err := postgres.NewPool(ctx, dbURL, postgres.PoolConfig{MaxConns: 2})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewUserRepository(pool)
	hasher := password.NewBcryptHasher(bcrypt.DefaultCost)

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}
	birthDate := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	var inserted, skipped int
	for _, spec := range users {
		_, err := repo.Create(ctx, &domain.User{
			Email:        spec.email,
			Name:         spec.name,
			PasswordHash: hash,
			Provider:     domain.ProviderLocal,
			BirthDate:    &birthDate,
			CountryCode:  spec.country,
			Role:         spec.role,
		})
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, domain.ErrDuplicateEmail):
			skipped++
		default:
			pool.Close()
			log.Fatalf("create %s: %v", spec.email, err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Users created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Printf("  Password:      %s\n", seedPassword)
	for _, spec := range users {
		fmt.Printf("    %-20s %s\n", spec.email, spec.role)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", users[0].email, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2: call a protected route with the access token:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/auth/me -H \"Authorization: Bearer $JWT\"")
}
