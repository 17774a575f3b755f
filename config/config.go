// Package config loads ULTRABUILD configuration from defaults, a YAML file, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ultrabuild/ultrabuild/logging"
	"gopkg.in/yaml.v3"
)

const (
	WorkspacesDir = "workspaces"
	DatabaseFile  = "ultrabuild.db"
)

// EnvProvider abstracts environment variable access for testing
type EnvProvider interface {
	Getenv(key string) string
	UserHomeDir() (string, error)
}

// DefaultEnvProvider implements EnvProvider using real OS functions
type DefaultEnvProvider struct{}

func (p *DefaultEnvProvider) Getenv(key string) string {
	return os.Getenv(key)
}

func (p *DefaultEnvProvider) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// GetDefaultDataDir returns the default data directory following the XDG Base Directory specification
func GetDefaultDataDir() string {
	return getDefaultDataDirWithEnv(&DefaultEnvProvider{})
}

func getDefaultDataDirWithEnv(env EnvProvider) string {
	if xdgDataHome := env.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "ultrabuild")
	}

	homeDir, _ := env.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "ultrabuild")
}

// Config holds configuration for all services
type Config struct {
	// Core paths
	DataDir      string `yaml:"data_dir"`
	DatabasePath string `yaml:"database_path"`
	WorkspaceDir string `yaml:"-"`

	// Logging
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	ColorEnabled bool   `yaml:"color_enabled"`

	// HTTP server
	HTTPHost string `yaml:"http_host"`
	HTTPPort int    `yaml:"http_port"`

	// Research collaborator
	ManusAPIURL     string        `yaml:"manus_api_url"`
	ManusAPIKey     string        `yaml:"-"`
	ResearchTimeout time.Duration `yaml:"research_timeout"`

	// AI rewriter
	OpenAIAPIKey        string        `yaml:"-"`
	OpenAIBaseURL       string        `yaml:"openai_base_url"`
	OpenAIModel         string        `yaml:"openai_model"`
	AIRequestsPerMinute int           `yaml:"ai_requests_per_minute"`
	RewriteTimeout      time.Duration `yaml:"rewrite_timeout"`

	// Deployment targets
	VercelToken   string        `yaml:"-"`
	VercelAPIURL  string        `yaml:"vercel_api_url"`
	GitHubToken   string        `yaml:"-"`
	AWSBucket     string        `yaml:"aws_s3_bucket"`
	AWSRegion     string        `yaml:"aws_region"`
	AWSCommand    string        `yaml:"aws_command"`
	DeployTimeout time.Duration `yaml:"deploy_timeout"`

	// Notifications
	TelegramBotToken string `yaml:"-"`
	TelegramChatID   string `yaml:"telegram_chat_id"`

	// Stores
	DeploymentCapacity int `yaml:"deployment_capacity"`
	ProjectCapacity    int `yaml:"project_capacity"`
	HealingCapacity    int `yaml:"healing_capacity"`

	// Persistence
	Persistence   bool   `yaml:"persistence"`
	EncryptionKey string `yaml:"-"`

	// Tracing
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	env    EnvProvider
	dotenv map[string]string
}

// Options carries values coming from the command line
type Options struct {
	ConfigFile string
	DataDir    string
}

// New creates a configuration from the real environment
func New(opts Options) (*Config, error) {
	return NewWithEnv(&DefaultEnvProvider{}, opts)
}

// NewWithEnv creates a configuration with a custom environment provider (for testing)
func NewWithEnv(env EnvProvider, opts Options) (*Config, error) {
	c := &Config{env: env}

	c.setDefaults()

	if opts.ConfigFile != "" {
		if err := c.loadFromFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// The data directory decides where the .env file lives, so resolve it first
	if v := env.Getenv("ULTRABUILD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if opts.DataDir != "" {
		c.DataDir = opts.DataDir
	}

	c.loadDotenv()
	c.loadFromEnv()
	c.derivePaths()

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

func (c *Config) setDefaults() {
	c.DataDir = getDefaultDataDirWithEnv(c.env)
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ColorEnabled = true
	c.HTTPHost = "0.0.0.0"
	c.HTTPPort = 3000
	c.ResearchTimeout = 30 * time.Second
	c.OpenAIBaseURL = "https://api.openai.com/v1"
	c.OpenAIModel = "gpt-4o-mini"
	c.AIRequestsPerMinute = 60
	c.RewriteTimeout = 60 * time.Second
	c.VercelAPIURL = "https://api.vercel.com"
	c.AWSRegion = "us-east-1"
	c.AWSCommand = "aws"
	c.DeployTimeout = 10 * time.Minute
	c.DeploymentCapacity = 5000
	c.ProjectCapacity = 10000
	c.HealingCapacity = 1000
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadDotenv reads .env files from the working directory and the data directory.
// Values found there are used only when the real environment does not set them.
func (c *Config) loadDotenv() {
	c.dotenv = map[string]string{}
	for _, path := range []string{".env", filepath.Join(c.DataDir, ".env")} {
		values, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, ok := c.dotenv[k]; !ok {
				c.dotenv[k] = v
			}
		}
	}
}

func (c *Config) lookup(key string) string {
	if v := c.env.Getenv(key); v != "" {
		return v
	}
	return c.dotenv[key]
}

func (c *Config) loadFromEnv() {
	setString := func(key string, dst *string) {
		if v := c.lookup(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := c.lookup(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := c.lookup(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := c.lookup(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ULTRABUILD_DATABASE_PATH", &c.DatabasePath)
	setString("ULTRABUILD_LOG_LEVEL", &c.LogLevel)
	setString("ULTRABUILD_LOG_FORMAT", &c.LogFormat)
	setBool("ULTRABUILD_COLOR_ENABLED", &c.ColorEnabled)
	setString("HOST", &c.HTTPHost)
	setInt("PORT", &c.HTTPPort)

	setString("MANUS_API_URL", &c.ManusAPIURL)
	setString("MANUS_API_KEY", &c.ManusAPIKey)
	setDuration("ULTRABUILD_RESEARCH_TIMEOUT", &c.ResearchTimeout)

	setString("OPENAI_API_KEY", &c.OpenAIAPIKey)
	setString("OPENAI_BASE_URL", &c.OpenAIBaseURL)
	setString("OPENAI_MODEL", &c.OpenAIModel)
	setInt("ULTRABUILD_AI_REQUESTS_PER_MINUTE", &c.AIRequestsPerMinute)
	setDuration("ULTRABUILD_REWRITE_TIMEOUT", &c.RewriteTimeout)

	setString("VERCEL_TOKEN", &c.VercelToken)
	setString("VERCEL_API_URL", &c.VercelAPIURL)
	setString("GITHUB_TOKEN", &c.GitHubToken)
	setString("AWS_S3_BUCKET", &c.AWSBucket)
	setString("AWS_REGION", &c.AWSRegion)
	setString("ULTRABUILD_AWS_COMMAND", &c.AWSCommand)
	setDuration("ULTRABUILD_DEPLOY_TIMEOUT", &c.DeployTimeout)

	setString("TELEGRAM_BOT_TOKEN", &c.TelegramBotToken)
	setString("TELEGRAM_CHAT_ID", &c.TelegramChatID)

	setInt("ULTRABUILD_DEPLOYMENT_CAPACITY", &c.DeploymentCapacity)
	setInt("ULTRABUILD_PROJECT_CAPACITY", &c.ProjectCapacity)
	setInt("ULTRABUILD_HEALING_CAPACITY", &c.HealingCapacity)

	setBool("ULTRABUILD_PERSISTENCE", &c.Persistence)
	setString("ULTRABUILD_ENCRYPTION_KEY", &c.EncryptionKey)

	setString("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLPEndpoint)
}

func (c *Config) derivePaths() {
	c.WorkspaceDir = filepath.Join(c.DataDir, WorkspacesDir)
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, DatabaseFile)
	}
}

func (c *Config) validate() error {
	if !slices.Contains(logging.ValidLogLevels(), c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of %v)", c.LogLevel, logging.ValidLogLevels())
	}
	if !slices.Contains(logging.ValidLogFormats(), c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of %v)", c.LogFormat, logging.ValidLogFormats())
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d (must be 1-65535)", c.HTTPPort)
	}

	for name, d := range map[string]time.Duration{
		"research timeout": c.ResearchTimeout,
		"rewrite timeout":  c.RewriteTimeout,
		"deploy timeout":   c.DeployTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got: %v", name, d)
		}
	}

	for name, n := range map[string]int{
		"deployment capacity": c.DeploymentCapacity,
		"project capacity":    c.ProjectCapacity,
		"healing capacity":    c.HealingCapacity,
	} {
		if n < 1 {
			return fmt.Errorf("%s must be at least 1, got: %d", name, n)
		}
	}

	if c.AIRequestsPerMinute < 1 {
		return fmt.Errorf("AI requests per minute must be at least 1, got: %d", c.AIRequestsPerMinute)
	}

	if c.Persistence && c.EncryptionKey == "" {
		return errors.New(
			"encryption key is required when persistence is enabled - set ULTRABUILD_ENCRYPTION_KEY or add it to the .env file in the data directory",
		)
	}

	return nil
}

// Integrations reports which optional collaborators have credentials
func (c *Config) Integrations() map[string]bool {
	return map[string]bool{
		"manus":    c.ManusAPIURL != "" && c.ManusAPIKey != "",
		"ai":       c.OpenAIAPIKey != "",
		"vercel":   c.VercelToken != "",
		"github":   c.GitHubToken != "",
		"aws":      c.AWSBucket != "",
		"telegram": c.TelegramBotToken != "" && c.TelegramChatID != "",
		"tracing":  c.OTLPEndpoint != "",
	}
}
