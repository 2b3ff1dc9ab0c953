package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/visagekit/visage/internal/store"
)

// Options holds shared configuration for the mask, filter, and minmax commands
type Options struct {
	InputPath   string
	OutputDir   string
	MaskType    string
	ColorSpace  string
	Extract     bool
	Recurse     bool
	FilterColor string
	FilterAlpha float64
	Region      string
}

var (
	// DB is the global database connection shared by subcommands. It stays
	// nil when no database is reachable and the command can run without one.
	DB *store.Store
	// dbURL is the connection string
	dbURL   string
	verbose bool
	// Log is the process-wide structured logger, configured in the root
	// PersistentPreRun before any subcommand work starts.
	Log *slog.Logger
)

// requiresDB names the subcommands that cannot run without a database.
var requiresDB = map[string]bool{
	"list":    true,
	"reset":   true,
	"similar": true,
}

// Version is the application version.
const Version = "0.0.1"

var rootCmd = &cobra.Command{
	Use:     "visage",
	Short:   "Facial Region Masking & Color Analysis Engine",
	Version: Version, // This enables the --version flag
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		Log = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}))
		slog.SetDefault(Log)

		// If no flag was provided, try to build the connection string from the environment
		if dbURL == "" {
			if host := os.Getenv("POSTGRES_HOST"); host != "" {
				user := os.Getenv("POSTGRES_USER")
				pass := os.Getenv("POSTGRES_PASSWORD")
				name := os.Getenv("POSTGRES_DB")
				port := os.Getenv("POSTGRES_PORT")
				if port == "" {
					port = "5432"
				}
				dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
			} else {
				// Fallback to local default if no env vars are present
				dbURL = "postgres://localhost:5432/visage"
			}
		}

		var err error
		DB, err = store.New(cmd.Context(), dbURL)
		if err != nil {
			if requiresDB[cmd.Name()] {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			// Processing commands work fine without a catalog; results
			// just stay on disk.
			Log.Warn("database unavailable, results will not be cataloged", "err", err)
			DB = nil
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			// Use Background here because the main context might be cancelled already (due to Ctrl+C)
			// and we still need to send the "Close" command to the DB.
			DB.Close(context.Background())
		}
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This tells Cobra not to print the version in the help text, which is cleaner.
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string (default: postgres://localhost:5432/visage)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
