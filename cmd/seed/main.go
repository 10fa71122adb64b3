// seed inserts development sample data for local testing.
// Idempotent: skips inserts when the admin user already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	categorydomain "online-shop/backend/internal/category/domain"
	categoryrepository "online-shop/backend/internal/category/repository"
	"online-shop/backend/internal/config"
	"online-shop/backend/internal/db"
	gooddomain "online-shop/backend/internal/good/domain"
	goodrepository "online-shop/backend/internal/good/repository"
	"online-shop/backend/internal/security"
	userdomain "online-shop/backend/internal/user/domain"
	userrepository "online-shop/backend/internal/user/repository"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	users := userrepository.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: admin %s already exists, skipping", email)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hashed, err := hasher.Hash([]byte(password))
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	now := time.Now().UTC()
	admin := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		Role:         userdomain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("seed: create admin: %v", err)
	}

	categories := categoryrepository.NewPostgresRepository(conn)
	books := &categorydomain.Category{
		ID:        uuid.New().String(),
		Name:      "Books",
		UpdatedAt: now,
	}
	if err := categories.Create(ctx, books); err != nil {
		log.Fatalf("seed: create category: %v", err)
	}

	goods := goodrepository.NewPostgresRepository(conn)
	if _, err := goods.Create(ctx, &gooddomain.Good{
		ID:       uuid.New().String(),
		Name:     "The Go Programming Language",
		Price:    39.99,
		Category: *books,
	}); err != nil {
		log.Fatalf("seed: create good: %v", err)
	}

	log.Printf("seed: created admin %s with one sample category and good", email)
}
