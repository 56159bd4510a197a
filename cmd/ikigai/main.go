// Ikigai - guided reflection wizard client
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ashureev/ikigai/internal/config"
	"github.com/ashureev/ikigai/internal/store"
	"github.com/ashureev/ikigai/internal/stream"
	"github.com/ashureev/ikigai/internal/tui"
)

var (
	// Global flags
	serverURL string
	dbPath    string
	transport string
	logFile   string
	verbose   bool

	markdownStyle string

	logCloser func() error
)

var rootCmd = &cobra.Command{
	Use:   "ikigai",
	Short: "Ikigai - discover your purpose in four questions",
	Long: `Ikigai guides you through four reflections (what you love, what you are
good at, what the world needs and what you can be paid for) and asks the
summary server for a personal synthesis.

Run without arguments to start the interactive wizard. Answers are saved
locally as you type and restored on the next run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser()
		}
	},
	RunE: runWizard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", config.ServerURL(), "Summary server URL (env IKIGAI_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DBPath(), "Local answers database (env IKIGAI_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", config.Transport(), "Stream transport: http or ws (env IKIGAI_TRANSPORT)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.LogPath(), "Log file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&markdownStyle, "style", "auto", "Summary style: auto, dark, light, notty, a glamour JSON style path, or empty for plain text")

	rootCmd.AddCommand(generateCmd, answersCmd)
}

// initLogger sends logs to a file; the terminal belongs to the wizard.
func initLogger() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	logCloser = f.Close
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open answers database: %w", err)
	}
	return s, nil
}

func runWizard(cmd *cobra.Command, args []string) error {
	consumer, err := stream.New(transport, serverURL)
	if err != nil {
		return err
	}

	kv, err := openStore()
	if err != nil {
		// The wizard still works without persistence.
		slog.Warn("Answers will not be saved", "error", err)
	} else {
		defer kv.Close()
	}

	opts := tui.Options{Consumer: consumer, MarkdownStyle: markdownStyle}
	if kv != nil {
		opts.Store = kv
	}

	slog.Info("Starting wizard", "server", serverURL, "transport", transport)
	return tui.Run(cmd.Context(), opts)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
