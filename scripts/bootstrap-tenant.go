package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

type output struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		company     = flag.String("company", "Bootstrap Co", "Company name for the tenant")
		phone       = flag.String("phone", "", "Company phone number")
		email       = flag.String("email", "admin@stockroom.local", "Owner email")
		password    = flag.String("password", "", "Owner password (required)")
		firstName   = flag.String("first-name", "Admin", "Owner first name")
		lastName    = flag.String("last-name", "User", "Owner last name")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	ownerEmail := auth.NormalizeEmail(*email)

	existing, err := repo.GetUserByEmail(ctx, ownerEmail)
	if err == nil {
		// Already bootstrapped; report the existing binding instead of failing.
		emit(*format, output{
			TenantID: existing.TenantID,
			UserID:   existing.ID,
			Email:    existing.Email,
		})
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		fmt.Fprintln(os.Stderr, "lookup user:", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	tenant := &model.Tenant{
		ID:        model.NewID(),
		Name:      strings.TrimSpace(*company),
		Phone:     strings.TrimSpace(*phone),
		CreatedAt: now,
	}
	if err := repo.CreateTenant(ctx, tenant); err != nil {
		fmt.Fprintln(os.Stderr, "create tenant:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           model.NewID(),
		Email:        ownerEmail,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(*firstName),
		LastName:     strings.TrimSpace(*lastName),
		TenantID:     tenant.ID,
		CreatedAt:    now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	emit(*format, output{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Email:    user.Email,
	})
}

func emit(format string, out output) {
	switch strings.ToLower(format) {
	case "plain":
		fmt.Println(out.TenantID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
