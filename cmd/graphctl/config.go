package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/graphedit/core/logger"
)

// Backend names accepted in GRAPHCTL_BACKEND.
const (
	backendMemory   = "memory"
	backendSQLite   = "sqlite"
	backendPostgres = "postgres"
	backendRedis    = "redis"
	backendMongo    = "mongo"
)

// Config is the CLI configuration. Backend and planner specific settings
// are loaded separately, only when selected.
type Config struct {
	Env         string `env:"GRAPHCTL_ENV" envDefault:"development"`
	LogLevel    string `env:"GRAPHCTL_LOG_LEVEL" envDefault:"info"`
	Backend     string `env:"GRAPHCTL_BACKEND" envDefault:"memory"`
	GraphID     string `env:"GRAPHCTL_GRAPH_ID" envDefault:"default"`
	SQLitePath  string `env:"GRAPHCTL_SQLITE_PATH" envDefault:"graph.db"`
	UndoLimit   int    `env:"GRAPHCTL_UNDO_LIMIT" envDefault:"100"`
	Planner     string `env:"GRAPHCTL_PLANNER" envDefault:"openai"`
	PlanModel   string `env:"GRAPHCTL_PLANNER_MODEL"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	GoogleKey   string `env:"GOOGLE_API_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	MetricsDump bool   `env:"GRAPHCTL_METRICS" envDefault:"false"`
}

func (c Config) validate() error {
	switch c.Backend {
	case backendMemory, backendSQLite, backendPostgres, backendRedis, backendMongo:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.GraphID == "" {
		return fmt.Errorf("graph id is required")
	}
	return nil
}

func (c Config) logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := []logger.Option{logger.WithOutput(w), logger.WithLevel(level)}
	switch c.Env {
	case "production":
		opts = append([]logger.Option{logger.WithProduction("graphctl")}, opts...)
	case "staging":
		opts = append([]logger.Option{logger.WithStaging("graphctl")}, opts...)
	default:
		opts = append([]logger.Option{logger.WithDevelopment("graphctl")}, opts...)
	}
	return logger.New(opts...)
}
