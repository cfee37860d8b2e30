package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samgozman/fin-pulse/jobs"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/spf13/viper"
)

var errConfiguration = errors.New("configuration error")

// Env is a structure that holds all the environment variables that are used in the app.
type Env struct {
	TelegramBotToken         string `mapstructure:"TELEGRAM_BOT_TOKEN" validate:"required"`
	TelegramChatID           string `mapstructure:"TELEGRAM_CHAT_ID" validate:"required"`
	Timezone                 string `mapstructure:"TIMEZONE" validate:"required,timezone"`
	DailyTime                string `mapstructure:"DAILY_TIME" validate:"required,datetime=15:04"`
	EmergencyIntervalMinutes int    `mapstructure:"EMERGENCY_INTERVAL_MINUTES" validate:"gte=1"`
	FetchTimeoutSeconds      int    `mapstructure:"FETCH_TIMEOUT_SECONDS" validate:"gte=1"`
	OutlookTimeoutSeconds    int    `mapstructure:"OUTLOOK_TIMEOUT_SECONDS" validate:"gte=1"`
	SentryDSN                string `mapstructure:"SENTRY_DSN"`
	OpenAiToken              string `mapstructure:"OPENAI_TOKEN"`
	GoogleGeminiToken        string `mapstructure:"GOOGLE_GEMINI_TOKEN"`
	LogLevel                 string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Publish                  bool   `mapstructure:"PUBLISH"`
}

// envDefaults are applied before the environment and the .env file.
var envDefaults = map[string]any{
	"TIMEZONE":                   "Europe/Warsaw",
	"DAILY_TIME":                 "09:00",
	"EMERGENCY_INTERVAL_MINUTES": 30,
	"FETCH_TIMEOUT_SECONDS":      10,
	"OUTLOOK_TIMEOUT_SECONDS":    40,
	"LOG_LEVEL":                  "info",
	"PUBLISH":                    true,
}

// LoadEnv reads the environment, optionally overlaid on the dotenv file at path, and validates it.
// A missing file is not an error.
func LoadEnv(path string) (*Env, error) {
	v := viper.New()
	for k, d := range envDefaults {
		v.SetDefault(k, d)
	}
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SENTRY_DSN", "OPENAI_TOKEN", "GOOGLE_GEMINI_TOKEN"} {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("%w: %w", errConfiguration, err)
		}
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read %s: %w", errConfiguration, path, err)
		}
	}

	env := &Env{}
	if err := v.Unmarshal(env); err != nil {
		return nil, fmt.Errorf("%w: failed to parse environment: %w", errConfiguration, err)
	}

	if err := validator.New().Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfiguration, err)
	}

	return env, nil
}

// Feed is one RSS source of headlines.
type Feed struct {
	Name string
	URL  string
}

type Config struct {
	env          *Env                // Holds all the environment variables that are used in the app
	schedule     jobs.ScheduleConfig // Parsed from the environment once
	feeds        []Feed              // Headline sources, in briefing order
	keywords     []string            // A headline is an alert if its title contains any of them
	perFeedLimit int                 // Entries scanned per feed
	totalLimit   int                 // Alerts kept in a briefing
}

// NewConfig creates a new Config object with the given Env and default values from DefaultConfig.
func NewConfig(env *Env) (*Config, error) {
	schedule, err := parseSchedule(env)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	c.env = env
	c.schedule = schedule
	return c, nil
}

// DefaultConfig creates a new Config object with default values.
func DefaultConfig() *Config {
	return &Config{
		env: &Env{},
		feeds: []Feed{
			{Name: "bbc:world", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
			{Name: "aljazeera:all", URL: "https://www.aljazeera.com/xml/rss/all.xml"},
			{Name: "rbc:news", URL: "https://rssexport.rbc.ru/rbcnews/news/30/full.rss"},
		},
		keywords: []string{
			"iran",
			"israel",
			"hezbollah",
			"houthi",
			"hormuz",
			"missile",
			"sanctions",
			"opec",
			"brent",
			"oil",
			"nato",
			"иран",
			"израил",
			"хезболл",
			"хусит",
			"ормуз",
			"ракет",
			"санкци",
			"нефт",
		},
		perFeedLimit: journalist.DefaultPerFeedLimit,
		totalLimit:   journalist.DefaultTotalLimit,
	}
}

// FetchTimeout is the budget of a single quote or feed request.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.env.FetchTimeoutSeconds) * time.Second
}

// OutlookTimeout is the budget of a single forecaster call.
func (c *Config) OutlookTimeout() time.Duration {
	return time.Duration(c.env.OutlookTimeoutSeconds) * time.Second
}

// LogLevel returns the slog level of LOG_LEVEL.
func (c *Config) LogLevel() slog.Level {
	return parseLogLevel(c.env.LogLevel)
}

func parseLogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseSchedule(env *Env) (jobs.ScheduleConfig, error) {
	loc, err := time.LoadLocation(env.Timezone)
	if err != nil {
		return jobs.ScheduleConfig{}, fmt.Errorf("%w: TIMEZONE %q: %w", errConfiguration, env.Timezone, err)
	}

	at, err := time.Parse("15:04", env.DailyTime)
	if err != nil {
		return jobs.ScheduleConfig{}, fmt.Errorf("%w: DAILY_TIME %q: %w", errConfiguration, env.DailyTime, err)
	}

	schedule := jobs.ScheduleConfig{
		DailyHour:         uint(at.Hour()),
		DailyMinute:       uint(at.Minute()),
		EmergencyInterval: time.Duration(env.EmergencyIntervalMinutes) * time.Minute,
		Location:          loc,
	}
	if err := schedule.Validate(); err != nil {
		return jobs.ScheduleConfig{}, fmt.Errorf("%w: %w", errConfiguration, err)
	}

	return schedule, nil
}
