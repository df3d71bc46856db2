// Package config provides configuration management for the election
// forecasting engine.
package config

import "fmt"

// Config represents the complete application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Driver    DriverConfig    `mapstructure:"driver" validate:"required"`
	Feed      FeedConfig      `mapstructure:"feed" validate:"required"`
	Campaign  CampaignConfig  `mapstructure:"campaign" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Features  FeaturesConfig  `mapstructure:"features"`
}

// AppConfig represents application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the forecast_history database connection.
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// DriverConfig configures the worker-pool daily analysis run (component C9).
type DriverConfig struct {
	NumWorkers       int  `mapstructure:"num_workers" validate:"required,gt=0"`
	HistogramTTLSecs int  `mapstructure:"histogram_ttl_seconds" validate:"gte=0"`
	BackdateHouse    bool `mapstructure:"backdate_house"`
}

// FeedConfig represents poll-feed ingestion configuration.
type FeedConfig struct {
	Sources  []FeedSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule FeedScheduleConfig `mapstructure:"schedule"`
}

// FeedSourceConfig represents a single poll feed source configuration.
type FeedSourceConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Type    string `mapstructure:"type" validate:"required,oneof=http file"`
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"required"`
	APIKey  string `mapstructure:"api_key"`
}

// FeedScheduleConfig represents feed-refresh scheduling.
type FeedScheduleConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// CampaignConfig describes the campaign being analyzed.
type CampaignConfig struct {
	Name               string `mapstructure:"name" validate:"required"`
	StartDate          string `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	IsPresidentialYear bool   `mapstructure:"is_presidential_year"`
}

// SchedulerConfig configures periodic re-runs of the driver.
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	RunCron string `mapstructure:"run_cron"`
}

// MetricsConfig represents metrics and monitoring configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig configures the liveness/readiness HTTP server.
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

// TracingConfig configures AWS X-Ray tracing for a run.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

// FeaturesConfig represents CLI-toggleable feature flags (spec §6).
type FeaturesConfig struct {
	SkipHTML      bool `mapstructure:"skip_html"`
	CacheOnly     bool `mapstructure:"cache_only"`
	NotBackdating bool `mapstructure:"not_backdating"`
	ResetHistory  bool `mapstructure:"reset_history"`
}

// IsDevelopment checks if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode.
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string.
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
