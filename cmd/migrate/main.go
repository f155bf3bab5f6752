package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"filemeta/internal/config"
	"filemeta/internal/database"
	"filemeta/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		driver  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the document store used by the file metadata API",
		Long: `migrate connects to the configured document store and creates the
file metadata collection (MongoDB) or table (PostgreSQL) if it does not exist.
Connection settings come from the same environment variables as the API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.StoreDriver = driver
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger.Init(os.Stdout, cfg.LogLevel, cfg.Location())

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			store, err := database.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
			}
			defer func() {
				if err := store.Close(context.Background()); err != nil {
					log.Warn().Err(err).Msg("close document store")
				}
			}()

			return store.Migrate(ctx)
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "Override STORE_DRIVER (mongo or postgres)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up after this long")
	return cmd
}
