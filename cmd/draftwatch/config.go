package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Draft struct {
		ID          string `yaml:"id"`
		UserID      string `yaml:"user_id"`
		Seat        int    `yaml:"seat"`
		FeedBaseURL string `yaml:"feed_base_url"`
	} `yaml:"draft"`

	Pool struct {
		CSVPath           string `yaml:"csv_path"`
		UseTierForOverall bool   `yaml:"use_tier_for_overall"`
		KeepEmptyTiers    bool   `yaml:"keep_empty_tiers"`
	} `yaml:"pool"`

	Poll struct {
		IntervalSeconds int  `yaml:"interval_seconds"`
		AutoStart       bool `yaml:"auto_start"`
	} `yaml:"poll"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// applyDefaults fills unset fields, letting env vars override the draft
// identity so the same config file works across drafts.
func applyDefaults(config *Config) {
	config.Draft.ID = getEnv("DRAFTWATCH_DRAFT_ID", config.Draft.ID)
	config.Draft.UserID = getEnv("DRAFTWATCH_USER_ID", config.Draft.UserID)
	config.Draft.Seat = getEnvAsInt("DRAFTWATCH_SEAT", config.Draft.Seat)

	if config.Poll.IntervalSeconds == 0 {
		config.Poll.IntervalSeconds = 30
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":" + getEnv("PORT", "8080")
	}
}
