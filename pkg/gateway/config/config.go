package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Assistant names the tool set the gateway serves.
type Assistant string

const (
	AssistantBarista  Assistant = "barista"
	AssistantGrocery  Assistant = "grocery"
	AssistantFraud    Assistant = "fraud"
	AssistantSDR      Assistant = "sdr"
	AssistantWellness Assistant = "wellness"
	AssistantTutor    Assistant = "tutor"
)

type Config struct {
	Addr string

	// Which assistant's tool set this process serves.
	Assistant Assistant

	// DataDir holds per-assistant mutable output (history files, snapshots).
	DataDir string

	// SharedDataDir holds the static reference datasets loaded at startup.
	SharedDataDir string

	// Live WebSocket mode (/v1/live).
	LiveMaxJSONMessageBytes int64
	LiveWSPingInterval      time.Duration
	LiveWSWriteTimeout      time.Duration
	LiveHandshakeTimeout    time.Duration
	LiveToolTimeout         time.Duration

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                    envOr("AGENT_ADDR", ":8080"),
		Assistant:               Assistant(strings.ToLower(envOr("AGENT_ASSISTANT", string(AssistantBarista)))),
		DataDir:                 envOr("AGENT_DATA_DIR", "data"),
		SharedDataDir:           envOr("AGENT_SHARED_DATA_DIR", "shared-data"),
		LiveMaxJSONMessageBytes: envInt64Or("AGENT_LIVE_MAX_JSON_MESSAGE_BYTES", 64*1024),
		LiveWSPingInterval:      envDurationOr("AGENT_LIVE_WS_PING_INTERVAL", 20*time.Second),
		LiveWSWriteTimeout:      envDurationOr("AGENT_LIVE_WS_WRITE_TIMEOUT", 5*time.Second),
		LiveHandshakeTimeout:    envDurationOr("AGENT_LIVE_HANDSHAKE_TIMEOUT", 5*time.Second),
		LiveToolTimeout:         envDurationOr("AGENT_LIVE_TOOL_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout:       envDurationOr("AGENT_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:             envDurationOr("AGENT_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod:     envDurationOr("AGENT_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	switch cfg.Assistant {
	case AssistantBarista, AssistantGrocery, AssistantFraud, AssistantSDR, AssistantWellness, AssistantTutor:
	default:
		return Config{}, fmt.Errorf("AGENT_ASSISTANT must be one of barista|grocery|fraud|sdr|wellness|tutor")
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("AGENT_DATA_DIR must not be empty")
	}
	if strings.TrimSpace(cfg.SharedDataDir) == "" {
		return Config{}, fmt.Errorf("AGENT_SHARED_DATA_DIR must not be empty")
	}
	if cfg.LiveMaxJSONMessageBytes <= 0 {
		return Config{}, fmt.Errorf("AGENT_LIVE_MAX_JSON_MESSAGE_BYTES must be > 0")
	}
	if cfg.LiveWSPingInterval <= 0 {
		return Config{}, fmt.Errorf("AGENT_LIVE_WS_PING_INTERVAL must be > 0")
	}
	if cfg.LiveWSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("AGENT_LIVE_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.LiveHandshakeTimeout <= 0 {
		return Config{}, fmt.Errorf("AGENT_LIVE_HANDSHAKE_TIMEOUT must be > 0")
	}
	if cfg.LiveToolTimeout <= 0 {
		return Config{}, fmt.Errorf("AGENT_LIVE_TOOL_TIMEOUT must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("AGENT_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("AGENT_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("AGENT_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
