package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"min=1"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"min=1"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"min=1"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"min=1"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"min=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	UploadsDir    string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig controls the normalization pipeline: which rule set the
// service runs, upload limits, and the name of the merged download.
type PipelineConfig struct {
	RuleSet        string `yaml:"rule_set" envconfig:"RULE_SET" validate:"required"`
	DownloadName   string `yaml:"download_name" envconfig:"DOWNLOAD_NAME" validate:"required"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"min=1"`
	MaxBatchBytes  int64  `yaml:"max_batch_bytes" envconfig:"MAX_BATCH_BYTES" validate:"min=1"`
	MaxBatchFiles  int    `yaml:"max_batch_files" envconfig:"MAX_BATCH_FILES" validate:"min=1"`
	MergeWorkers   int    `yaml:"merge_workers" envconfig:"MERGE_WORKERS" validate:"min=1"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
}

// Load loads configuration from defaults, an optional config file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := *Default()

	// Overlay from config file if one exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables win over file values
	if err := envconfig.Process("SURVEYPREP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Validate paths
	if err := cfg.ValidatePaths(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg. Only keys
// present in the file are touched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}

	return nil
}

// resolvePaths sets up the executable directory for relative path resolution
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" {
		return nil
	}

	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ResolvedPaths maps the configured directories onto a Paths value. Absolute
// directories are used as given; relative ones are joined to the executable
// directory.
func (c *Config) ResolvedPaths() *Paths {
	return &Paths{
		ExecutableDir: c.Paths.ExecutableDir,
		DataDir:       c.resolveDir(c.Paths.DataDir),
		UploadsDir:    c.resolveDir(c.Paths.UploadsDir),
		LogsDir:       c.resolveDir(c.Paths.LogsDir),
	}
}

func (c *Config) resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ExecutableDir, dir)
}

// ValidatePaths validates that critical paths exist or can be created
func (c *Config) ValidatePaths() error {
	paths := c.ResolvedPaths()

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	return c.resolveDir(c.Paths.DataDir)
}

// GetUploadsDir returns the resolved upload staging directory path
func (c *Config) GetUploadsDir() string {
	return c.resolveDir(c.Paths.UploadsDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	return c.resolveDir(c.Paths.LogsDir)
}

// validate validates the configuration. Invalid logging values are coerced
// to safe defaults; everything else fails startup.
func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		c.Logging.Format = strings.ToLower(c.Logging.Format)
	default:
		c.Logging.Format = DefaultLogFormat
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
		c.Logging.Output = strings.ToLower(c.Logging.Output)
	default:
		c.Logging.Output = DefaultLogOutput
	}

	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFilePath
	}

	if err := structValidator.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid value for %s: failed %q check", f.Namespace(), f.Tag())
		}
		return err
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Pipeline.MaxUploadBytes > c.Pipeline.MaxBatchBytes {
		return fmt.Errorf("pipeline max_upload_bytes (%d) exceeds max_batch_bytes (%d)",
			c.Pipeline.MaxUploadBytes, c.Pipeline.MaxBatchBytes)
	}

	return nil
}

// structValidator is shared across calls; validator instances cache struct
// metadata.
var structValidator = validator.New()

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"config.yml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: DefaultShutdownTimeout,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			Output:      DefaultLogOutput,
			FilePath:    DefaultLogFilePath,
			Development: false,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			UploadsDir: DefaultUploadsDir,
			LogsDir:    DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			RuleSet:        DefaultRuleSet,
			DownloadName:   DefaultDownloadName,
			MaxUploadBytes: DefaultMaxUploadBytes,
			MaxBatchBytes:  DefaultMaxBatchBytes,
			MaxBatchFiles:  DefaultMaxBatchFiles,
			MergeWorkers:   DefaultMergeWorkers,
		},
		Telemetry: TelemetryConfig{
			Enabled:       true,
			ServiceName:   DefaultServiceName,
			TraceExporter: "none",
		},
	}
}
