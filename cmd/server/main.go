package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	_ "github.com/luna1998-nun/QA-assistant-backend/docs" // swagger docs
	"github.com/luna1998-nun/QA-assistant-backend/internal/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/handler"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/llm"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/memory"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/tts"
	"github.com/luna1998-nun/QA-assistant-backend/internal/logfile"
	"github.com/luna1998-nun/QA-assistant-backend/internal/router"
	"github.com/luna1998-nun/QA-assistant-backend/internal/usecase"
	"github.com/luna1998-nun/QA-assistant-backend/pkg/logger"
)

//	@title			QA Assistant Backend
//	@version		0.1.0
//	@description	油气田调度日志问答助手后端，提供调度总结对话、会话历史管理与语音合成代理

//	@contact.name	API Support

//	@host		localhost:8123
//	@BasePath	/

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "qa-assistant-backend",
	Short: "Dispatch log summary assistant backend",
	Long: `QA Assistant Backend is an HTTP gateway built with the Hertz framework.
It turns per-day oil & gas dispatch logs into handover shift summaries
generated by an LLM and streamed to the browser over SSE.`,
	Version: version,
	Run:     runServer,
}

func init() {
	// Define flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("config loaded successfully", "config_file", cfgFile)
	slog.Info("QA Assistant Backend starting...",
		"version", version,
		"config", cfgFile,
	)

	// Setup Hertz to use slog
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)

	// Initialize LLM client
	llmClient, err := llm.NewClient(cfg.LLM, slog.Default())
	if err != nil {
		slog.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	// 启动时探测上游可达性，failure只告警不退出
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := llmClient.Ping(ctx); err != nil {
		slog.Warn("llm upstream unreachable at startup, summaries will fail until it recovers", "error", err)
	}
	cancel()

	// Initialize chat memory store
	store, err := memory.NewStore(cfg.ChatMemoryDir(), slog.Default())
	if err != nil {
		slog.Error("failed to create chat memory store", "error", err)
		os.Exit(1)
	}
	slog.Info("chat memory store ready", "dir", store.BaseDir())

	// Initialize dispatch log resolver
	resolver := logfile.NewResolver(cfg.DispatchLogs.Dir, slog.Default())

	// Initialize TTS proxy client
	ttsClient, err := tts.NewClient(cfg.TTS, cfg.AudioTempDir(), slog.Default())
	if err != nil {
		slog.Error("failed to create tts client", "error", err)
		os.Exit(1)
	}

	// Initialize usecase and handlers
	dispatchUsecase := usecase.NewDispatchUsecase(llmClient, store, resolver, slog.Default())
	dispatchHandler := handler.NewDispatchHandler(dispatchUsecase, cfg.Stream.Timeout, slog.Default())
	ttsHandler := handler.NewTTSHandler(ttsClient, slog.Default())
	healthHandler := handler.NewHealthHandler(llmClient)

	slog.Info("handlers initialized")

	// Create Hertz server with performance optimization
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.GetReadTimeout()),
		server.WithWriteTimeout(cfg.GetWriteTimeout()),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	// Setup routes
	router.Setup(h, dispatchHandler, ttsHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	// Graceful shutdown
	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
