package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/youthmind/youthmind/internal/api"
	"github.com/youthmind/youthmind/internal/community"
	"github.com/youthmind/youthmind/internal/config"
	"github.com/youthmind/youthmind/internal/flows"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/library"
	"github.com/youthmind/youthmind/internal/storage"
)

var serveMCP bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the youthmind server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running youthmind server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func init() {
	startCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP over stdio")
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("Configuration error: %v", err)
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	// Refuse to start if another instance already answers on our port.
	if serverHealthy(cfg.Server.Port) {
		printWarning("Server already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running")
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := writePIDFile(cfg.Storage.DataDir); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	defer removePIDFile(cfg.Storage.DataDir)

	printStep("Opening store at %s", cfg.Storage.DataDir)
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	client := genai.NewClientWithBaseURL(cfg.GenAI.APIKey, cfg.GenAI.BaseURL)
	svc := flows.NewService(client, flows.Models{
		Chat:     cfg.GenAI.ChatModel,
		TTS:      cfg.GenAI.TTSModel,
		TTSVoice: cfg.GenAI.TTSVoice,
	})
	board := community.NewBoard(svc, store, logger)
	lib := library.New(store)

	handler := api.NewHandler(api.Deps{
		Flows:   svc,
		Board:   board,
		Library: lib,
		Store:   store,
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", httpSrv.Addr, "chat_model", cfg.GenAI.ChatModel)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if serveMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{Flows: svc, Board: board, Library: lib})
		g.Go(func() error {
			logger.Info("mcp server listening on stdio")
			if err := server.NewStdioServer(mcpSrv).Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	printSuccess("youthmind started on port %d", cfg.Server.Port)

	if err := g.Wait(); err != nil {
		return err
	}
	printSuccess("youthmind stopped")
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pid, err := readPIDFile(cfg.Storage.DataDir)
	if err != nil {
		printWarning("No pid file found; server may not be running")
		return nil
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile(cfg.Storage.DataDir)
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		removePIDFile(cfg.Storage.DataDir)
		printWarning("Process %d not running; removed stale pid file", pid)
		return nil
	}

	printSuccess("Sent stop signal to process %d", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, colorize(colorBold, "youthmind status"))
	printStatus("Port", "%d", cfg.Server.Port)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	printStatus("Chat model", "%s", cfg.GenAI.ChatModel)
	printStatus("TTS model", "%s (%s)", cfg.GenAI.TTSModel, cfg.GenAI.TTSVoice)

	if serverHealthy(cfg.Server.Port) {
		printSuccess("Server is running")
	} else {
		printWarning("Server is not running")
	}
	return nil
}

func serverHealthy(port int) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "youthmind.pid")
}

func writePIDFile(dataDir string) error {
	return os.WriteFile(pidFilePath(dataDir), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(dataDir string) (int, error) {
	data, err := os.ReadFile(pidFilePath(dataDir))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(dataDir string) {
	os.Remove(pidFilePath(dataDir))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
