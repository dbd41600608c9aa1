package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr  = ":8080"
	defaultRunner      = "simulated"
	defaultMinDuration = 10 * time.Second
	defaultMaxDuration = 30 * time.Second
	defaultSuccessRate = 0.8

	envListenAddr  = "HELIX_LISTEN_ADDR"
	envLogLevel    = "HELIX_LOG_LEVEL"
	envRunner      = "HELIX_RUNNER"
	envMinDuration = "HELIX_SIM_MIN_DURATION"
	envMaxDuration = "HELIX_SIM_MAX_DURATION"
	envSuccessRate = "HELIX_SIM_SUCCESS_RATE"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	LogLevel   slog.Level
	Runner     string
	Simulation SimulationConfig
}

// SimulationConfig parameterizes the simulated pipeline runner: each job
// sleeps for a duration drawn uniformly from [MinDuration, MaxDuration] and
// succeeds with probability SuccessRate.
type SimulationConfig struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	SuccessRate float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		ListenAddr: envString(envListenAddr, defaultListenAddr),
		LogLevel:   parseLogLevel(os.Getenv(envLogLevel)),
		Runner:     envString(envRunner, defaultRunner),
		Simulation: SimulationConfig{
			MinDuration: envDuration(envMinDuration, defaultMinDuration),
			MaxDuration: envDuration(envMaxDuration, defaultMaxDuration),
			SuccessRate: envFloat(envSuccessRate, defaultSuccessRate),
		},
	}

	// Keep the duration bounds ordered even if misconfigured.
	if cfg.Simulation.MaxDuration < cfg.Simulation.MinDuration {
		cfg.Simulation.MaxDuration = cfg.Simulation.MinDuration
	}
	if cfg.Simulation.SuccessRate < 0 || cfg.Simulation.SuccessRate > 1 {
		cfg.Simulation.SuccessRate = defaultSuccessRate
	}

	return cfg
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
