package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"
	configPathEnv   = "NEWS_DIGEST_CONFIG"
	dbHostEnv       = "DB_HOST"
	dbPortEnv       = "DB_PORT"
	dbUserEnv       = "DB_USER"
	dbPasswordEnv   = "DB_PASSWORD"
	dbNameEnv       = "DB_NAME"
	claudeAPIKeyEnv = "CLAUDE_API_KEY"
	claudeModelEnv  = "CLAUDE_MODEL"
	slackWebhookEnv = "SLACK_WEBHOOK_URL"
	maxRetriesEnv   = "MAX_RETRIES"
	retryDelayEnv   = "RETRY_DELAY"
	simThresholdEnv = "SIMILARITY_THRESHOLD"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Claude    ClaudeConfig    `yaml:"claude"`
	Slack     SlackConfig     `yaml:"slack"`
	Retry     RetryConfig     `yaml:"retry"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig describes the news store connection details.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN renders a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name)
}

// ClaudeConfig defines how to contact the Anthropic API.
type ClaudeConfig struct {
	APIKey       string  `yaml:"apiKey"`
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"maxTokens"`
	MaxNewsItems int     `yaml:"maxNewsItems"`
	InputPer1K   float64 `yaml:"inputCostPer1k"`
	OutputPer1K  float64 `yaml:"outputCostPer1k"`
}

// SlackConfig wires the incoming-webhook delivery channel.
type SlackConfig struct {
	WebhookURL       string `yaml:"webhookUrl"`
	MaxMessageLength int    `yaml:"maxMessageLength"`
}

// RetryConfig bounds reconnect attempts for transient I/O failures.
type RetryConfig struct {
	MaxRetries int `yaml:"maxRetries"`
	RetryDelay int `yaml:"retryDelaySeconds"`
}

// Delay returns the base backoff duration.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.RetryDelay) * time.Second
}

// AnalysisConfig tunes clustering and selection behavior.
type AnalysisConfig struct {
	SimilarityThreshold int            `yaml:"similarityThreshold"`
	MinTotal            int            `yaml:"minTotal"`
	MinCounts           map[string]int `yaml:"minCounts"`
}

// SchedulerConfig defines when analysis runs should fire.
type SchedulerConfig struct {
	Timezone       string         `yaml:"timezone"`
	RunImmediately bool           `yaml:"runImmediately"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads .env, YAML configuration (if present) and applies environment
// overrides. Call Validate before using the result.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Validate reports every unset required value. Missing credentials make the
// service useless, so startup must abort.
func (c Config) Validate() error {
	var missing []string

	if c.Database.Host == "" {
		missing = append(missing, dbHostEnv)
	}
	if c.Database.User == "" {
		missing = append(missing, dbUserEnv)
	}
	if c.Database.Password == "" {
		missing = append(missing, dbPasswordEnv)
	}
	if c.Database.Name == "" {
		missing = append(missing, dbNameEnv)
	}
	if c.Claude.APIKey == "" {
		missing = append(missing, claudeAPIKeyEnv)
	}
	if c.Slack.WebhookURL == "" {
		missing = append(missing, slackWebhookEnv)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbHostEnv); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv(dbPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv(dbUserEnv); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv(dbPasswordEnv); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(dbNameEnv); v != "" {
		c.Database.Name = v
	}

	if v := os.Getenv(claudeAPIKeyEnv); v != "" {
		c.Claude.APIKey = v
	}
	if v := os.Getenv(claudeModelEnv); v != "" {
		c.Claude.Model = v
	}

	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Slack.WebhookURL = v
	}

	if v := os.Getenv(maxRetriesEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retry.MaxRetries = n
		}
	}
	if v := os.Getenv(retryDelayEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retry.RetryDelay = n
		}
	}

	if v := os.Getenv(simThresholdEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.SimilarityThreshold = n
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Host != "" {
		base.Database.Host = override.Database.Host
	}
	if override.Database.Port != 0 {
		base.Database.Port = override.Database.Port
	}
	if override.Database.User != "" {
		base.Database.User = override.Database.User
	}
	if override.Database.Password != "" {
		base.Database.Password = override.Database.Password
	}
	if override.Database.Name != "" {
		base.Database.Name = override.Database.Name
	}

	if override.Claude.APIKey != "" {
		base.Claude.APIKey = override.Claude.APIKey
	}
	if override.Claude.Model != "" {
		base.Claude.Model = override.Claude.Model
	}
	if override.Claude.MaxTokens != 0 {
		base.Claude.MaxTokens = override.Claude.MaxTokens
	}
	if override.Claude.MaxNewsItems != 0 {
		base.Claude.MaxNewsItems = override.Claude.MaxNewsItems
	}
	if override.Claude.InputPer1K != 0 {
		base.Claude.InputPer1K = override.Claude.InputPer1K
	}
	if override.Claude.OutputPer1K != 0 {
		base.Claude.OutputPer1K = override.Claude.OutputPer1K
	}

	if override.Slack.WebhookURL != "" {
		base.Slack.WebhookURL = override.Slack.WebhookURL
	}
	if override.Slack.MaxMessageLength != 0 {
		base.Slack.MaxMessageLength = override.Slack.MaxMessageLength
	}

	if override.Retry.MaxRetries != 0 {
		base.Retry.MaxRetries = override.Retry.MaxRetries
	}
	if override.Retry.RetryDelay != 0 {
		base.Retry.RetryDelay = override.Retry.RetryDelay
	}

	if override.Analysis.SimilarityThreshold != 0 {
		base.Analysis.SimilarityThreshold = override.Analysis.SimilarityThreshold
	}
	if override.Analysis.MinTotal != 0 {
		base.Analysis.MinTotal = override.Analysis.MinTotal
	}
	if len(override.Analysis.MinCounts) > 0 {
		base.Analysis.MinCounts = override.Analysis.MinCounts
	}

	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.RunImmediately {
		base.Scheduler.RunImmediately = true
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Host: "", Port: 5432, User: "", Password: "", Name: ""},
		Claude: ClaudeConfig{
			Model:        "claude-sonnet-4-5",
			MaxTokens:    4000,
			MaxNewsItems: 30,
			InputPer1K:   0.003,
			OutputPer1K:  0.015,
		},
		Slack: SlackConfig{MaxMessageLength: 3000},
		Retry: RetryConfig{MaxRetries: 3, RetryDelay: 5},
		Analysis: AnalysisConfig{
			SimilarityThreshold: 65,
			MinTotal:            10,
			MinCounts: map[string]int{
				"market":    3,
				"corporate": 3,
				"policy":    3,
			},
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, RunImmediately: false, location: tz},
		Logging:   LoggingConfig{Level: "info"},
	}
}
