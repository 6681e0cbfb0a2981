package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Network   NetworkConfig   `toml:"network"`
	Game      GameConfig      `toml:"game"`
	Logging   LoggingConfig   `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	MOTD      string `toml:"motd"` // welcome line sent on join
	StartTime int64  // set at boot, not from config
}

type DataConfig struct {
	Root        string `toml:"root"` // players/, maps/, names.yaml live under here
	ScriptsPath string `toml:"scripts_path"`
}

type NetworkConfig struct {
	BindAddress        string `toml:"bind_address"`
	InQueueSize        int    `toml:"in_queue_size"`
	OutQueueSize       int    `toml:"out_queue_size"`
	MaxMessagesPerTick int    `toml:"max_messages_per_tick"`
	MaxMessageSize     int64  `toml:"max_message_size"`
}

type GameConfig struct {
	StartX float64 `toml:"start_x"` // spawn point for new characters, in pixels
	StartY float64 `toml:"start_y"`

	// Autosave cadence in ticks. At 30 ticks/sec, 900 ticks is 30 seconds.
	AutosaveTicks int `toml:"autosave_ticks"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	MessagesPerSecond float64 `toml:"messages_per_second"`
	MessageBurst      int     `toml:"message_burst"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// LoadOrDefaults reads the config when the file exists, otherwise boots on
// defaults so a bare checkout starts a usable server.
func LoadOrDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaults()
		cfg.Server.StartTime = time.Now().Unix()
		return cfg, nil
	}
	return Load(path)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "emberworld",
			MOTD: "Welcome to Emberworld!",
		},
		Data: DataConfig{
			Root:        "data",
			ScriptsPath: "scripts",
		},
		Network: NetworkConfig{
			BindAddress:        "0.0.0.0:7667",
			InQueueSize:        128,
			OutQueueSize:       256,
			MaxMessagesPerTick: 32,
			MaxMessageSize:     1 << 20, // SaveMap carries a whole map
		},
		Game: GameConfig{
			StartX:        480,
			StartY:        360,
			AutosaveTicks: 900,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			MessagesPerSecond: 60,
			MessageBurst:      90,
		},
	}
}
