package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manash/babygen/internal/gemini"
	"github.com/manash/babygen/internal/server"
	"github.com/manash/babygen/internal/store"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagPort      string
	flagDBPath    string
	flagAPIKey    string
	flagModel     string
	flagBaseURL   string
	flagStaticDir string
)

// App bundles the process dependencies so tests can substitute constructors.
type App struct {
	GetEnv    func(string) string
	NewStore  func(dbPath string) (*store.Store, error)
	NewClient func(cfg *gemini.Config) (*gemini.Client, error)
}

func DefaultApp() *App {
	return &App{
		GetEnv:    os.Getenv,
		NewStore:  store.New,
		NewClient: gemini.New,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := DefaultApp()
	rootCmd := newRootCmd(app)
	return rootCmd.Execute()
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "babygen",
		Short: "Baby photo prediction server",
		Long: `babygen serves an API that predicts a child's photo from family-member
photos using a generative image model, supports age-progression transforms of
prior results, and keeps a browsable history.

Endpoints:
  POST   /api/generate     synthesize a child image
  POST   /api/extrapolate  re-age a previous result
  GET    /api/history      list all results
  DELETE /api/history/:id  delete a result and its progressions
  GET    /api/health       health check`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app)
		},
	}

	cmd.Flags().StringVarP(&flagPort, "port", "p", "", "port to listen on (defaults to PORT or 3000)")
	cmd.Flags().StringVar(&flagDBPath, "db", "database.sqlite", "path to the sqlite database file")
	cmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	cmd.Flags().StringVar(&flagModel, "model", "", "generation model override")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "generation API base URL override")
	cmd.Flags().StringVar(&flagStaticDir, "static", "web/public", "directory with the frontend files")

	return cmd
}

func runServe(parent context.Context, app *App) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	apiKey := flagAPIKey
	if apiKey == "" {
		apiKey = app.GetEnv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return errors.New("API key required: set GEMINI_API_KEY or use --api-key")
	}

	port := flagPort
	if port == "" {
		port = app.GetEnv("PORT")
	}
	if port == "" {
		port = "3000"
	}

	st, err := app.NewStore(flagDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	client, err := app.NewClient(&gemini.Config{
		APIKey:  apiKey,
		BaseURL: flagBaseURL,
		Model:   flagModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	srv := server.New(st, client, &server.Config{StaticDir: flagStaticDir})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(":" + port)
	}()

	logger.Info("server started", "port", port, "db", flagDBPath)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	}
}
