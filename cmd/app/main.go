package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/app"
	sessiondeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "dead-x-bot",
		Short:        "Chat automation bot",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load (optional).")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSessionCmd())

	return cmd
}

// loadEnv loads path into the environment. Variables already set win and
// a missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the chat network and process messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fxApp := fx.New(
		app.CreateApp(),
		fx.StopTimeout(cfg.Service.ShutdownTimeout),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}
	fxApp.Run()
	return nil
}

func newSessionCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the provisioned session",
	}
	cmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session id (defaults to SESSION_ID).")

	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Fetch the session from the scanner and store it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), sessionID, func(ctx context.Context, p sessiondeps.Provider, id string) error {
				session, err := p.Fetch(ctx, id)
				if err != nil {
					return err
				}
				if err := p.PersistLocally(ctx, session); err != nil {
					return err
				}
				expires := "never"
				if !session.ExpiresAt.IsZero() {
					expires = session.ExpiresAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session %s stored (status %s, expires %s)\n", session.ID, session.Status, expires)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Ask the scanner whether the session is still usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), sessionID, func(ctx context.Context, p sessiondeps.Provider, id string) error {
				valid, err := p.Validate(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session %s valid: %t\n", id, valid)
				if !valid {
					return fmt.Errorf("session %s is not valid", id)
				}
				return nil
			})
		},
	})

	return cmd
}

// withProvider starts the session components, runs fn and stops them again
func withProvider(
	ctx context.Context,
	sessionID string,
	fn func(ctx context.Context, p sessiondeps.Provider, id string) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		provider sessiondeps.Provider
		scanner  *config.ScannerConfig
	)
	fxApp := fx.New(
		app.CreateSessionApp(),
		fx.NopLogger,
		fx.Populate(&provider, &scanner),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		_ = fxApp.Stop(stopCtx)
	}()

	if sessionID == "" {
		sessionID = scanner.SessionID
	}
	if sessionID == "" {
		return errors.New("session id required: pass --session or set SESSION_ID")
	}
	return fn(ctx, provider, sessionID)
}
