package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"

	"enchanted-day/backend/internal/api"
	"enchanted-day/backend/internal/config"
	"enchanted-day/backend/internal/database"
	app_errors "enchanted-day/backend/internal/errors"
	"enchanted-day/backend/internal/llm"
	"enchanted-day/backend/internal/repository"
	"enchanted-day/backend/internal/service"
)

// App holds the long-lived resources of the gateway.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
	Server *http.Server
}

// NewApp wires storage, the model provider, services and the HTTP server.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET must be set", app_errors.ErrValidation)
	}

	provider, err := newProvider(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	chatOpts := []service.ChatOption{service.WithAgentName(cfg.AgentName)}
	if cfg.LLMStreamMode == config.StreamChunked {
		chatOpts = append(chatOpts, service.WithPseudoStreaming())
	}
	chatService := service.NewChatService(repository.NewSQLiteRepository(db), provider, chatOpts...)
	weddingService := service.NewWeddingService(
		repository.NewSQLiteWeddingRepository(db),
		repository.NewRedisSelectionStore(rdb, cfg.SelectionTTL),
	)

	router := api.NewRouter(api.NewChatHandler(chatService), api.NewWeddingHandler(weddingService), api.RouterConfig{
		JWTSecret:         []byte(cfg.JWTSecret),
		ChatRatePerMinute: cfg.ChatRatePerMinute,
	})

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Config: cfg, DB: db, Redis: rdb, Server: server}, nil
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderBedrock:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BedrockRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		slog.Info("Using Bedrock provider", "region", cfg.BedrockRegion, "model", cfg.BedrockModelID)
		runtime := llm.NewBedrockRuntime(bedrockruntime.NewFromConfig(awsCfg))
		return llm.NewBedrockProvider(runtime, cfg.BedrockModelID), nil
	case config.ProviderOllama:
		slog.Info("Using Ollama provider", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		return llm.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q", app_errors.ErrValidation, cfg.LLMProvider)
	}
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	return errors.Join(a.Redis.Close(), a.DB.Close())
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}

func Run() int {
	cfg, err := config.LoadConfig("")
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.LLMProvider == config.ProviderOllama {
		if err := waitForOllama(ctx, cfg.OllamaURL, 3*time.Second); err != nil {
			slog.Error("Ollama never became ready", "error", err)
			return 1
		}
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("Failed to close connections", "error", err)
		}
	}()

	if err := app.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource(cfg *config.Config) {
	if cfg.ConfigFile != "" {
		slog.Info("Successfully loaded configuration from file.", "file", cfg.ConfigFile)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// waitForOllama polls ollamaURL until it answers 200 or ctx ends.
func waitForOllama(ctx context.Context, ollamaURL string, interval time.Duration) error {
	slog.Info("Waiting for Ollama to be ready...")
	client := &http.Client{Timeout: 2 * time.Second}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if resp != nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
			if resp.StatusCode == http.StatusOK {
				slog.Info("Ollama is ready.")
				return nil
			}
		}
		slog.Debug("Ollama not ready yet, retrying...", "url", ollamaURL, "error", err, "interval", interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
