// seed-admin creates or updates an administrator account and its profile.
//
// Usage:
//
//	DB_DRIVER=mysql DB_DSN=... ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"go-cashflow/internal/config"
	"go-cashflow/internal/database"
	"go-cashflow/internal/models"
	"go-cashflow/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Cashflow Admin"
	}
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL and ADMIN_PASSWORD must be set.")
		os.Exit(2)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN, cfg.GormLogLevel, config.NewLogger(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}

	user, created, err := session.EnsureAccount(context.Background(), db, email, password, name, models.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Created admin user: email=%q id=%s\n", user.Email, user.ID)
		return
	}
	fmt.Printf("Updated admin user: email=%q id=%s\n", user.Email, user.ID)
}
