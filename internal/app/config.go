package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/matching"
	"github.com/opentalent/talentgraph-backend/internal/platform/envutil"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

type Config struct {
	Port string

	QueryTimeout time.Duration
	SyncTimeout  time.Duration

	Weights  matching.Weights
	MatchTTL time.Duration

	RematchSchedule    string
	RematchConcurrency int
}

// fileConfig is the optional YAML override, pointed at by CONFIG_FILE. Env
// vars win for everything except weights, which only the file carries.
type fileConfig struct {
	Matching struct {
		Weights         matching.Weights `yaml:"weights"`
		CacheTTLMinutes int              `yaml:"cacheTTLMinutes"`
	} `yaml:"matching"`
	Rematch struct {
		Schedule    string `yaml:"schedule"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"rematch"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:               envutil.Str("PORT", "8080"),
		QueryTimeout:       envutil.Seconds("QUERY_TIMEOUT_SECONDS", 5*time.Second),
		SyncTimeout:        envutil.Seconds("SYNC_TIMEOUT_SECONDS", 10*time.Second),
		Weights:            matching.DefaultWeights(),
		MatchTTL:           time.Duration(envutil.Int("MATCH_TTL_MINUTES", int(cache.DefaultTTL.Minutes()))) * time.Minute,
		RematchSchedule:    envutil.Str("REMATCH_SCHEDULE", "@every 15m"),
		RematchConcurrency: envutil.Int("REMATCH_CONCURRENCY", 4),
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return cfg
	}
	fc, err := readConfigFile(path)
	if err != nil {
		log.Warn("Config file ignored", "path", path, "error", err)
		return cfg
	}
	cfg.Weights = fc.Matching.Weights.Normalized()
	if fc.Matching.CacheTTLMinutes > 0 {
		cfg.MatchTTL = time.Duration(fc.Matching.CacheTTLMinutes) * time.Minute
	}
	if fc.Rematch.Schedule != "" {
		cfg.RematchSchedule = fc.Rematch.Schedule
	}
	if fc.Rematch.Concurrency > 0 {
		cfg.RematchConcurrency = fc.Rematch.Concurrency
	}
	log.Info("Config file loaded", "path", path)
	return cfg
}

func readConfigFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &fc, nil
}
