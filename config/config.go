/*
Package config provides configuration management for the RSS feed tools.

This package separates configuration concerns from business logic and provides
a centralized way to build the process-wide services (logger, feed parser,
handlers) the feed endpoint is wired from.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/container"
	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/utils"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	LogLevel   string `validate:"oneof=trace debug info warn warning error fatal panic"`
	ServerPort string `validate:"required,numeric"`
	// Rate limiting configuration
	RateLimitRequestsPerMinute float64 `validate:"gt=0"`
	RateLimitBurst             int     `validate:"gte=1"`
	// Enhanced CORS configuration
	CORSConfig CORSConfig
	// Cleanup intervals
	ClientCleanupInterval time.Duration `validate:"gt=0"`
	ShutdownTimeout       time.Duration `validate:"gt=0"`
	// Feed endpoint settings
	FeedConfig FeedConfig
	// Observability settings
	TracingConfig TracingConfig
	AlertConfig   AlertConfig
	// Resume CLI settings
	ResumeConfig ResumeConfig
}

// FeedConfig holds settings for the feed-parsing capability
type FeedConfig struct {
	FetchTimeout         time.Duration `validate:"gte=0"`
	UserAgent            string
	BlockPrivateNetworks bool
	SourcesFile          string
}

// TracingConfig holds tracing settings
type TracingConfig struct {
	ServiceName    string `validate:"required"`
	JaegerEndpoint string `validate:"omitempty,url"`
}

// AlertConfig holds thresholds for the feed alert rules
type AlertConfig struct {
	EvalInterval         time.Duration `validate:"gt=0"`
	FailureRateThreshold float64       `validate:"gte=0,lte=1"`
	LatencyThreshold     time.Duration `validate:"gte=0"`
	MinSamples           int           `validate:"gte=1"`
}

// ResumeConfig holds settings for the resume extraction CLI
type ResumeConfig struct {
	SkillsFile  string
	MaxFileSize int64 `validate:"gte=0"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	// Environment-specific settings
	Environment string
	// Allowed origins based on environment
	DevelopmentOrigins []string
	StagingOrigins     []string
	ProductionOrigins  []string
	// Additional CORS settings
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int `validate:"gte=0"`
	// Dynamic origin validation
	AllowSubdomains bool
	AllowedDomains  []string
}

// Services holds all service dependencies
type Services struct {
	Container *container.Container
	Logger    *logrus.Logger
}

// AppConfig holds both configuration and services
type AppConfig struct {
	Config   *Config
	Services *Services
}

// NewConfig creates a new configuration instance
func NewConfig() *Config {
	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		// Rate limiting defaults (60 requests per minute, burst of 10)
		RateLimitRequestsPerMinute: getEnvFloat("RATE_LIMIT_RPM", 60.0),
		RateLimitBurst:             getEnvInt("RATE_LIMIT_BURST", 10),
		CORSConfig: CORSConfig{
			Environment: environment,
			DevelopmentOrigins: getEnvSlice("DEV_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:3001",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:3001",
				"http://localhost:8080",
			}),
			StagingOrigins: getEnvSlice("STAGING_CORS_ORIGINS", []string{
				"https://staging.yourdomain.com",
			}),
			ProductionOrigins: getEnvSlice("PROD_CORS_ORIGINS", []string{
				"https://yourdomain.com",
				"https://www.yourdomain.com",
			}),
			AllowedMethods: getEnvSlice("CORS_ALLOWED_METHODS", []string{
				"GET", "OPTIONS",
			}),
			AllowedHeaders: getEnvSlice("CORS_ALLOWED_HEADERS", []string{
				"Content-Type", "Authorization", "X-Requested-With",
				"X-Request-ID", "Accept", "Origin", "Cache-Control",
			}),
			ExposedHeaders: getEnvSlice("CORS_EXPOSED_HEADERS", []string{
				"X-Request-ID",
			}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 86400), // 24 hours
			AllowSubdomains:  getEnvBool("CORS_ALLOW_SUBDOMAINS", false),
			AllowedDomains:   getEnvSlice("CORS_ALLOWED_DOMAINS", []string{}),
		},
		ClientCleanupInterval: getEnvDuration("CLIENT_CLEANUP_INTERVAL", 1*time.Minute),
		ShutdownTimeout:       getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		FeedConfig: FeedConfig{
			// Zero keeps the HTTP client's own defaults
			FetchTimeout:         getEnvDuration("FEED_FETCH_TIMEOUT", 0),
			UserAgent:            getEnv("FEED_USER_AGENT", "rss-feed-tools/1.0"),
			BlockPrivateNetworks: getEnvBool("FEED_BLOCK_PRIVATE_NETWORKS", false),
			SourcesFile:          getEnv("FEED_SOURCES_FILE", ""),
		},
		TracingConfig: TracingConfig{
			ServiceName:    getEnv("SERVICE_NAME", "rss-feed-tools"),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		AlertConfig: AlertConfig{
			EvalInterval:         getEnvDuration("ALERT_EVAL_INTERVAL", time.Minute),
			FailureRateThreshold: getEnvFloat("ALERT_FEED_FAILURE_THRESHOLD", 0.5),
			LatencyThreshold:     getEnvDuration("ALERT_FEED_LATENCY_THRESHOLD", 10*time.Second),
			MinSamples:           getEnvInt("ALERT_MIN_SAMPLES", 10),
		},
		ResumeConfig: ResumeConfig{
			SkillsFile:  getEnv("RESUME_SKILLS_FILE", ""),
			MaxFileSize: getEnvInt64("RESUME_MAX_FILE_SIZE", 10<<20),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// NewServices creates and initializes all service dependencies using DI container
func NewServices(config *Config) (*Services, error) {
	logger := middleware.Logger
	if logger == nil {
		logger = middleware.NewLogger(config.LogLevel, os.Stdout)
	}

	feedParser := utils.NewGofeedParser(utils.ParserOptions{
		Timeout:              config.FeedConfig.FetchTimeout,
		UserAgent:            config.FeedConfig.UserAgent,
		BlockPrivateNetworks: config.FeedConfig.BlockPrivateNetworks,
	})
	logger.WithFields(logrus.Fields{
		"fetch_timeout":          config.FeedConfig.FetchTimeout.String(),
		"block_private_networks": config.FeedConfig.BlockPrivateNetworks,
	}).Info("Feed parser initialized successfully")

	diContainer := container.NewContainer()
	if err := diContainer.InitializeServices(feedParser, config.FeedConfig.SourcesFile, logger); err != nil {
		return nil, fmt.Errorf("failed to initialize dependency container: %w", err)
	}

	return &Services{
		Container: diContainer,
		Logger:    logger,
	}, nil
}

// NewAppConfig creates a new application configuration with all dependencies
func NewAppConfig() (*AppConfig, error) {
	config := NewConfig()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	services, err := NewServices(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &AppConfig{
		Config:   config,
		Services: services,
	}, nil
}

// Close gracefully closes all service connections
func (s *Services) Close() error {
	if s.Container != nil {
		return s.Container.Close()
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float64 with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt64 gets an environment variable as int64 with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as time.Duration with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as bool with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSlice gets an environment variable as a string slice with a default value
func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
