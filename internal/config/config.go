package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	History  HistoryConfig  `mapstructure:"history"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// APIConfig holds the StudyBuddy backend configuration
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AuthConfig holds the identity provider configuration. Token is a bearer JWT;
// TokenURL and RefreshToken configure the refreshing provider. With only Token
// set the credential is used as-is, and with nothing set requests go out
// anonymously.
type AuthConfig struct {
	Token              string `mapstructure:"token"`
	TokenURL           string `mapstructure:"token_url"`
	RefreshToken       string `mapstructure:"refresh_token"`
	ExpiryLeewaySecond int    `mapstructure:"expiry_leeway_seconds"`
}

// HistoryConfig holds the local activity journal configuration
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// PomodoroConfig holds the pomodoro timer configuration
type PomodoroConfig struct {
	WorkMinutes          int `mapstructure:"work_minutes"`
	ShortBreakMinutes    int `mapstructure:"short_break_minutes"`
	LongBreakMinutes     int `mapstructure:"long_break_minutes"`
	SessionsPerLongBreak int `mapstructure:"sessions_per_long_break"`
}

// Load loads the configuration from config.yaml in the working directory, or
// from the file named by CONFIG_PATH when set.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout_seconds", 60)
	v.SetDefault("auth.expiry_leeway_seconds", 30)
	v.SetDefault("history.path", "studybuddy.db")
	v.SetDefault("pomodoro.work_minutes", 25)
	v.SetDefault("pomodoro.short_break_minutes", 5)
	v.SetDefault("pomodoro.long_break_minutes", 15)
	v.SetDefault("pomodoro.sessions_per_long_break", 4)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Defaults are enough to run; only a broken file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
