package command

// root.go defines the root command for booklistctl, an admin tool that works
// directly against the configured database.

import (
	"context"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/api/service"
	"ctchen222/booklist/internal/config"
	"ctchen222/booklist/internal/credential"
	"ctchen222/booklist/internal/db"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "booklistctl",
		Short: "booklistctl - booklist administration",
		Long: `booklistctl manages readers of a booklist database. It can:
- Register a reader
- Log a reader in and print a bearer token
- Verify a bearer token

Configuration is read from the same environment variables (and .env file) as the server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRegisterCmd(), newTokenCmd(), newVerifyCmd())
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

// app holds what the commands need from the service layer.
type app struct {
	creds   *credential.Service
	readers service.ReaderService
	pool    *sqlx.DB
}

func openApp(_ context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	creds, err := credential.NewService(cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &app{
		creds:   creds,
		readers: service.NewReaderService(repository.NewReaderRepository(pool), creds),
		pool:    pool,
	}, nil
}

func (a *app) Close() error {
	return a.pool.Close()
}
