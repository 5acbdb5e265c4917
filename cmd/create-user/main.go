// create-user is a one-shot tool to add an operator account.
//
// Usage: go run ./cmd/create-user <username> <password> [role]
package main

import (
	"context"
	"log"
	"os"

	"resale-office/internal/db"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		log.Fatal("usage: create-user <username> <password> [role]")
	}
	username, password := os.Args[1], os.Args[2]
	role := "operator"
	if len(os.Args) > 3 {
		role = os.Args[3]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, is_active = true`,
		username, string(hash), role)
	if err != nil {
		log.Fatalf("Failed to upsert user: %v", err)
	}
	log.Printf("User %q (%s) ready.", username, role)
}
