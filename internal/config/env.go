// ABOUTME: Environment configuration for the server and CLI
// ABOUTME: Loads .env files and reads OPUSCP_* variables with go-envconfig
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/ospx/opuscp/pkg/codec"
	"github.com/sethvargo/go-envconfig"
)

// CodecConfig holds the default codec options
type CodecConfig struct {
	FrameSize     int `env:"OPUSCP_FRAME_SIZE, default=960"`
	SampleRate    int `env:"OPUSCP_SAMPLE_RATE, default=48000"`
	Channels      int `env:"OPUSCP_CHANNELS, default=1"`
	Bitrate       int `env:"OPUSCP_BITRATE, default=64000"`
	MaxFrameSize  int `env:"OPUSCP_MAX_FRAME_SIZE, default=5760"`
	MaxPacketSize int `env:"OPUSCP_MAX_PACKET_SIZE, default=3828"`
}

// Options converts the config to codec options
func (c CodecConfig) Options() codec.Options {
	return codec.Options{
		FrameSize:     c.FrameSize,
		SampleRate:    c.SampleRate,
		Channels:      c.Channels,
		Bitrate:       c.Bitrate,
		MaxFrameSize:  c.MaxFrameSize,
		MaxPacketSize: c.MaxPacketSize,
	}
}

// ServerConfig holds server settings that flags default from
type ServerConfig struct {
	Port       int    `env:"OPUSCP_PORT, default=8927"`
	Name       string `env:"OPUSCP_NAME, default=opuscp"`
	EnableMDNS bool   `env:"OPUSCP_MDNS, default=true"`
	UseTUI     bool   `env:"OPUSCP_TUI, default=true"`
	Debug      bool   `env:"OPUSCP_DEBUG"`
	LogFile    string `env:"OPUSCP_LOG_FILE, default=opuscp-server.log"`
}

// LoadEnv loads variables from .env files into the environment.
// Missing files are skipped; existing variables are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// NewCodecConfigFromEnv reads codec defaults from the environment
func NewCodecConfigFromEnv(ctx context.Context) (*CodecConfig, error) {
	return processCodec(ctx, envconfig.OsLookuper())
}

// NewServerConfigFromEnv reads server settings from the environment
func NewServerConfigFromEnv(ctx context.Context) (*ServerConfig, error) {
	return processServer(ctx, envconfig.OsLookuper())
}

func processCodec(ctx context.Context, l envconfig.Lookuper) (*CodecConfig, error) {
	var cfg CodecConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to read codec environment: %w", err)
	}
	if _, err := cfg.Options().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func processServer(ctx context.Context, l envconfig.Lookuper) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to read server environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("OPUSCP_PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	return &cfg, nil
}
