package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the Discoteque CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discoteque",
		Short: "Discoteque API server",
		Long: `Discoteque serves user registration, login and refresh-token
rotation over HTTP, backed by PostgreSQL or an in-memory store.

Configuration is read from environment variables (JWT_KEY, DATABASE_URL,
STORAGE_DRIVER, MONGO_URI, REDIS_ADDR, ...).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
