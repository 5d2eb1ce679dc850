package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Scores struct {
		File string `yaml:"file"`
	} `yaml:"scores"`
	Quiz QuizConfig `yaml:"quiz"`
}

// QuizConfig holds request defaults and the scoring policy.
type QuizConfig struct {
	DefaultGrade        int    `yaml:"default_grade"`
	DefaultCount        int    `yaml:"default_count"`
	MaxCount            int    `yaml:"max_count"`
	DefaultTimerSeconds int    `yaml:"default_timer_seconds"`
	DefaultMode         string `yaml:"default_mode"`
	RepeatScoring       bool   `yaml:"repeat_scoring"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Redis.TTL = "2h"
	cfg.Scores.File = "data/scores.json"
	cfg.Quiz = QuizConfig{
		DefaultGrade:        3,
		DefaultCount:        10,
		MaxCount:            100,
		DefaultTimerSeconds: 300,
		DefaultMode:         "Test",
	}
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but treats a missing file as defaults.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
