package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okami-inn/okami/internal/agentapi"
	"github.com/okami-inn/okami/internal/config"
	"github.com/okami-inn/okami/internal/lang"
	"github.com/okami-inn/okami/internal/wechat"
)

func monitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Poll WeChat accounts and route messages to their agents",
		Run: func(cmd *cobra.Command, args []string) {
			runMonitor()
		},
	}
}

func runMonitor() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	chat := agentapi.NewClient(cfg.Agent.BaseURL, time.Duration(cfg.Agent.TimeoutSeconds)*time.Second)
	detector := lang.NewDetector()
	manager := wechat.NewManager(cfg, chat, detector)

	if len(manager.Accounts()) == 0 {
		slog.Warn("no accounts configured for environment",
			"environment", cfg.DirectoryEnvironment(),
			"accounts_file", cfg.WeChat.AccountsFile,
		)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	interval := time.Duration(cfg.WeChat.PollIntervalSeconds) * time.Second
	manager.Run(ctx, interval)
}
