// Package spanner provides Cloud Spanner client initialization and the
// transaction scopes used by the Spanner repositories.
package spanner

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// Config holds Spanner connection configuration.
type Config struct {
	ProjectID  string
	InstanceID string
	DatabaseID string
	// EmulatorHost points the client at a local emulator. Falls back to
	// SPANNER_EMULATOR_HOST when empty.
	EmulatorHost string
}

// DSN returns the Spanner database connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s",
		c.ProjectID, c.InstanceID, c.DatabaseID)
}

func (c Config) emulatorHost() string {
	if c.EmulatorHost != "" {
		return c.EmulatorHost
	}
	return os.Getenv("SPANNER_EMULATOR_HOST")
}

// NewClient creates a new Spanner client from config.
// The caller is responsible for closing the client when done.
func NewClient(ctx context.Context, cfg Config) (*spanner.Client, error) {
	var opts []option.ClientOption
	if host := cfg.emulatorHost(); host != "" {
		opts = append(opts, option.WithEndpoint(host), option.WithoutAuthentication())
	}

	client, err := spanner.NewClient(ctx, cfg.DSN(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create spanner client: %w", err)
	}
	return client, nil
}

// IsNotFound reports whether err is a Spanner NOT_FOUND error, as returned
// by ReadRow for a missing key.
func IsNotFound(err error) bool {
	return spanner.ErrCode(err) == codes.NotFound
}
