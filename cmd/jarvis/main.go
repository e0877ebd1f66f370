package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jarvis/internal/assistant"
	"jarvis/internal/bus"
	"jarvis/internal/channel"
	"jarvis/internal/config"
	"jarvis/internal/contact"
	"jarvis/internal/domain"
	"jarvis/internal/executor"
	"jarvis/internal/history"
	"jarvis/internal/intent"
	"jarvis/internal/metrics"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	assistant.SetVersion(version)

	root := &cobra.Command{
		Use:   "jarvis",
		Short: "Jarvis: voice command interpreter",
		Long:  "Jarvis maps free-form utterances to phone calls, Google Maps navigation, and calendar events, over CLI, HTTP, Telegram, Discord, and Slack.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.jarvis/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(interpretCmd())
	root.AddCommand(configCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config, falling back to defaults when the file is missing.
func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		return config.Defaults()
	}
	return cfg
}

// buildLogger replaces the startup logger with one honoring the config.
func buildLogger(cfg *config.Config) error {
	var level slog.Level
	switch strings.ToLower(cfg.General.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "", "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %s", cfg.General.LogLevel)
	}

	var w io.Writer = os.Stderr
	if cfg.General.LogFile != "" {
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

// buildDirectory assembles the contact lookup chain: config entries first,
// then the YAML contacts file, then environment variables.
func buildDirectory(cfg *config.Config) domain.Directory {
	chain := contact.ChainDirectory{}
	if len(cfg.Contacts.Entries) > 0 {
		chain = append(chain, contact.StaticDirectory(cfg.Contacts.Entries))
	}
	if cfg.Contacts.File != "" {
		fileDir, err := contact.LoadContactsFile(cfg.Contacts.File, logger)
		if err != nil {
			logger.Warn("could not load contacts file", "path", cfg.Contacts.File, "err", err)
		} else if fileDir != nil {
			chain = append(chain, fileDir)
		}
	}
	chain = append(chain, contact.EnvDirectory{})
	return chain
}

func buildEngine(cfg *config.Config) *intent.Engine {
	return intent.NewEngine(intent.EngineConfig{
		WakeWord:  cfg.Engine.WakeWord,
		Assistant: cfg.Engine.AssistantName,
		Resolver:  contact.NewResolver(buildDirectory(cfg)),
		Logger:    logger,
	})
}

// buildLoop wires the assistant loop with optional history and executor.
// The returned cleanup closes the history store.
func buildLoop(ctx context.Context, cfg *config.Config, messageBus domain.MessageBus) (*assistant.Loop, func(), error) {
	var histStore domain.HistoryStore
	cleanup := func() {}
	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.DBPath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("history store: %w", err)
		}
		if _, err := store.PurgeOlderThan(ctx, cfg.History.RetentionDays); err != nil {
			logger.Warn("history purge failed", "err", err)
		}
		histStore = store
		cleanup = func() { store.Close() }
	}

	var exec domain.ActionExecutor
	if cfg.Executor.Enabled {
		exec = executor.NewBrowser(executor.BrowserConfig{
			ProfileDir: cfg.Executor.ProfileDir,
			Headless:   cfg.Executor.Headless,
			Logger:     logger,
		})
	}

	loop := assistant.NewLoop(assistant.LoopConfig{
		Engine:      buildEngine(cfg),
		History:     histStore,
		Executor:    exec,
		Bus:         messageBus,
		Logger:      logger,
		Concurrency: cfg.General.MaxConcurrentMessages,
	})
	return loop, cleanup, nil
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat (CLI)",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := buildLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(100, logger)
	defer messageBus.Close()

	loop, cleanup, err := buildLoop(ctx, cfg, messageBus)
	if err != nil {
		return err
	}
	defer cleanup()

	go loop.Run(ctx)

	cliCh := channel.NewCLI(channel.CLIConfig{Logger: logger})
	return cliCh.Start(ctx, messageBus)
}

func interpretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interpret [utterance]",
		Short: "Interpret a single utterance and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if err := buildLogger(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			messageBus := bus.New(10, logger)
			defer messageBus.Close()

			loop, cleanup, err := buildLoop(ctx, cfg, messageBus)
			if err != nil {
				return err
			}
			defer cleanup()

			res := loop.InterpretDirect(ctx, strings.Join(args, " "), "cli", "oneshot")
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start all enabled channels and the assistant loop",
		Long:  "Starts the HTTP API and all enabled chat channels (Telegram, Discord, Slack, WebSocket). Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := buildLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Message bus (closed during graceful shutdown below)
	messageBus := bus.New(100, logger)

	loop, cleanup, err := buildLoop(ctx, cfg, messageBus)
	if err != nil {
		return err
	}
	defer cleanup()

	go loop.Run(ctx)

	var channels []domain.Channel

	if cfg.Channels.API.Enabled {
		apiCfg := channel.APIConfig{
			Host:   cfg.Channels.API.Host,
			Port:   cfg.Channels.API.Port,
			Secret: cfg.Channels.API.Secret,
			Logger: logger,
		}
		if cfg.Metrics.Enabled {
			apiCfg.MetricsEndpoint = cfg.Metrics.Endpoint
			apiCfg.MetricsHandler = metrics.Collector.Handler()
		}
		channels = append(channels, channel.NewAPI(apiCfg))
	}

	if cfg.Channels.WebSocket.Enabled {
		channels = append(channels, channel.NewWebSocketChannel(channel.WSConfig{
			Port:   cfg.Channels.WebSocket.Port,
			Path:   cfg.Channels.WebSocket.Path,
			Logger: logger,
		}))
	}

	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.Token != "" {
		channels = append(channels, channel.NewTelegram(channel.TelegramConfig{
			Token:     cfg.Channels.Telegram.Token,
			AllowFrom: cfg.Channels.Telegram.AllowFrom,
			ParseMode: cfg.Channels.Telegram.ParseMode,
			Logger:    logger,
		}))
	}

	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token != "" {
		channels = append(channels, channel.NewDiscord(channel.DiscordConfig{
			Token:   cfg.Channels.Discord.Token,
			GuildID: cfg.Channels.Discord.GuildID,
			Logger:  logger,
		}))
	}

	if cfg.Channels.Slack.Enabled && cfg.Channels.Slack.BotToken != "" {
		channels = append(channels, channel.NewSlack(channel.SlackConfig{
			BotToken: cfg.Channels.Slack.BotToken,
			AppToken: cfg.Channels.Slack.AppToken,
			Logger:   logger,
		}))
	}

	if len(channels) == 0 {
		return fmt.Errorf("no channels enabled; enable at least one in %s", cfgPath)
	}

	for _, ch := range channels {
		go func(ch domain.Channel) {
			metrics.ActiveChannels.Inc()
			defer metrics.ActiveChannels.Dec()
			if err := ch.Start(ctx, messageBus); err != nil {
				logger.Error("channel error", "channel", ch.Name(), "err", err)
			}
		}(ch)
		logger.Info("channel enabled", "channel", ch.Name())
	}

	logger.Info("jarvis started. Press Ctrl+C to stop.", "version", version)

	// Block until shutdown signal
	<-ctx.Done()
	logger.Info("shutting down...")

	// Graceful shutdown with timeout
	const shutdownTimeout = 10 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, ch := range channels {
			if err := ch.Stop(); err != nil {
				logger.Warn("channel stop error", "channel", ch.Name(), "err", err)
			}
		}
		messageBus.Close()
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, forcing exit")
		shutdownErr = fmt.Errorf("shutdown timed out")
	}

	return shutdownErr
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. engine.wakeWord)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. engine.wakeWord friday)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "value", args[1], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			sanitized := config.Sanitize(cfg)
			data, _ := json.MarshalIndent(sanitized, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}
