// Command devtoken mints a bearer token signed with the server's configured
// secret, for calling the API locally. It refuses to run in production.
//
//	JWT_SECRET=... go run ./cmd/devtoken -role admin
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/config"
)

func main() {
	sub := flag.String("sub", "", "user id (defaults to a new UUID)")
	role := flag.String("role", auth.RoleUser, "role claim: user, supplier or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := run(*sub, *role, *ttl); err != nil {
		slog.Error("failed to mint token", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(sub, role string, ttl time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to mint tokens in %s", cfg.App.Env)
	}
	switch role {
	case auth.RoleUser, auth.RoleSupplier, auth.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	if sub == "" {
		sub = uuid.NewString()
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(auth.Principal{UserID: sub, Role: role})
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Fprintf(os.Stderr, "sub=%s role=%s expires=%s\n", sub, role, time.Now().Add(ttl).Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
