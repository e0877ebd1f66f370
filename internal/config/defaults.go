package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:              "info",
			MaxConcurrentMessages: 5,
		},
		Engine: EngineConfig{
			WakeWord:      "jarvis",
			AssistantName: "Jarvis",
		},
		Channels: ChannelsConfig{
			API: APIConfig{
				Enabled: true,
				Host:    "127.0.0.1",
				Port:    8086,
			},
			CLI: CLIConfig{
				Enabled: true,
			},
			WebSocket: WebSocketConfig{
				Enabled: false,
				Port:    8087,
				Path:    "/ws",
			},
			Telegram: TelegramConfig{
				Enabled:   false,
				ParseMode: "Markdown",
			},
			Discord: DiscordConfig{
				Enabled: false,
			},
			Slack: SlackConfig{
				Enabled: false,
			},
		},
		Contacts: ContactsConfig{
			File: "~/.jarvis/contacts.yaml",
		},
		History: HistoryConfig{
			Enabled:       true,
			DBPath:        "~/.jarvis/jarvis.db",
			RetentionDays: 365,
		},
		Executor: ExecutorConfig{
			Enabled:    false,
			ProfileDir: "~/.jarvis/chrome-profile",
			Headless:   false,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
	}
}
