// seed inserts the role table and the demo accounts for local testing.
// Idempotent: existing roles keep their ids and existing accounts are skipped.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	accountrepo "hotel-booking-account/backend/internal/account/repository"
	"hotel-booking-account/backend/internal/account/seed"
	"hotel-booking-account/backend/internal/config"
	"hotel-booking-account/backend/internal/db"
	"hotel-booking-account/backend/internal/role/catalog"
	rolerepo "hotel-booking-account/backend/internal/role/repository"
	"hotel-booking-account/backend/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	if err := rolerepo.Seed(ctx, rolerepo.NewPostgresRepository(conn), catalog.NewStatic()); err != nil {
		log.Fatalf("seed roles: %v", err)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	n, err := seed.Accounts(ctx, accountrepo.NewPostgresRepository(conn), hasher, seed.DemoAccounts)
	if err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	log.Printf("Seed completed; %d account(s) created.", n)
	for _, a := range seed.DemoAccounts {
		fmt.Printf("%s login: %s / %s\n", a.Role, a.Email, a.Password)
	}
}
