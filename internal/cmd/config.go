package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	Realtime struct {
		BaseURL              string  `yaml:"base_url"`
		HeartbeatSeconds     float64 `yaml:"heartbeat_seconds"`
		MaxReconnectAttempts int     `yaml:"max_reconnect_attempts"`
	} `yaml:"realtime"`
	Player struct {
		Name        string `yaml:"name"`
		SessionCode string `yaml:"session_code"`
		QuizID      int    `yaml:"quiz_id"`
	} `yaml:"player"`
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

	return &config, nil
}

// resolveConfig layers defaults, the optional yaml file, and environment
// variables, in increasing precedence.
func resolveConfig(path string) *Config {
	config := &Config{}
	if path != "" {
		if loaded, err := loadConfig(path); err == nil {
			config = loaded
		}
	}

	if config.API.BaseURL == "" {
		config.API.BaseURL = "http://localhost:8000"
	}
	if config.Realtime.BaseURL == "" {
		config.Realtime.BaseURL = "ws://localhost:8000"
	}

	config.API.BaseURL = getEnv("QUIZ_API_URL", config.API.BaseURL)
	config.Realtime.BaseURL = getEnv("QUIZ_WS_URL", config.Realtime.BaseURL)
	config.Player.Name = getEnv("PLAYER_NAME", config.Player.Name)
	config.Player.SessionCode = getEnv("SESSION_CODE", config.Player.SessionCode)
	config.Player.QuizID = getEnvAsInt("QUIZ_ID", config.Player.QuizID)
	config.Realtime.MaxReconnectAttempts = getEnvAsInt("MAX_RECONNECT_ATTEMPTS", config.Realtime.MaxReconnectAttempts)

	return config
}
