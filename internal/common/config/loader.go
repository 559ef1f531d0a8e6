// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderSES    = "ses"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env or .env.local found near the working
// directory or the module root. Real environment variables win.
func loadEnvFile() string {
	candidates := []string{".env.local", ".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env.local"), filepath.Join(root, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		v.Set(key, os.ExpandEnv(strVal))
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// overrideEmptyConfig fills settings still empty after unmarshalling from
// the environment names used by the hosted deployment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.URL == "" {
		cfg.Database.Postgres.URL = firstEnv("DATASTORE_URL", "SUPABASE_DB_URL", "DATABASE_URL")
	}
	if cfg.Database.Postgres.Key == "" {
		cfg.Database.Postgres.Key = firstEnv("DATASTORE_KEY", "SUPABASE_DB_PASSWORD", "DB_PASSWORD")
	}

	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}
	if cfg.Database.Redis.Password == "" {
		cfg.Database.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}

	if len(cfg.Database.Elasticsearch.Addresses) == 0 {
		if addr := os.Getenv("ELASTICSEARCH_URL"); addr != "" {
			cfg.Database.Elasticsearch.Addresses = strings.Split(addr, ",")
		}
	}

	if cfg.Tracing.JaegerEndpoint == "" {
		cfg.Tracing.JaegerEndpoint = os.Getenv("JAEGER_ENDPOINT")
	}

	if cfg.Notifications.APIKey == "" {
		cfg.Notifications.APIKey = firstEnv("EMAIL_PROVIDER_KEY", "RESEND_API_KEY")
	}
	if cfg.Notifications.OperatorAddress == "" {
		cfg.Notifications.OperatorAddress = os.Getenv("OPERATOR_EMAIL")
	}
	if cfg.Notifications.AWS.AccessKeyID == "" {
		cfg.Notifications.AWS.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if cfg.Notifications.AWS.SecretAccessKey == "" {
		cfg.Notifications.AWS.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if cfg.Notifications.AWS.TopicARN == "" {
		cfg.Notifications.AWS.TopicARN = os.Getenv("INTAKE_TOPIC_ARN")
	}

	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = os.Getenv("ZEEBE_ADDRESS")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "kokos-intake"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.ConnMaxLife == 0 {
		cfg.Database.Postgres.ConnMaxLife = 300000
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "require"
	}

	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "intakes"
	}

	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = 1
	}

	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}

	if cfg.Intake.SessionTTL == 0 {
		cfg.Intake.SessionTTL = 24 * 60 * 60 * 1000
	}
	if cfg.Intake.DraftTTL == 0 {
		cfg.Intake.DraftTTL = 30 * 24 * 60 * 60 * 1000
	}
	if cfg.Intake.SubmitTimeout == 0 {
		cfg.Intake.SubmitTimeout = 20000
	}
	if cfg.Intake.MaxBodyBytes == 0 {
		cfg.Intake.MaxBodyBytes = 1 << 20
	}

	if cfg.Notifications.Provider == "" {
		cfg.Notifications.Provider = ProviderResend
	}
	if cfg.Notifications.FromAddress == "" {
		cfg.Notifications.FromAddress = "KOK-OS System <onboarding@resend.dev>"
	}
	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = 10000
	}
	if cfg.Notifications.Resend.BaseURL == "" {
		cfg.Notifications.Resend.BaseURL = "https://api.resend.com"
	}
	if cfg.Notifications.SMTP.Host == "" {
		cfg.Notifications.SMTP.Host = "smtp.resend.com"
	}
	if cfg.Notifications.SMTP.Port == 0 {
		cfg.Notifications.SMTP.Port = 587
	}
	if cfg.Notifications.SMTP.Username == "" {
		cfg.Notifications.SMTP.Username = "resend"
	}
	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "eu-central-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig rejects settings that can never work. Missing datastore
// credentials are allowed here.
func validateConfig(cfg *Config) error {
	switch cfg.Notifications.Provider {
	case ProviderResend, ProviderSMTP, ProviderSES:
	default:
		return fmt.Errorf("notifications.provider must be one of resend, smtp, ses; got %q", cfg.Notifications.Provider)
	}

	if cfg.Database.Postgres.URL != "" {
		if _, err := cfg.Database.Postgres.GetDSN(); err != nil {
			return fmt.Errorf("database.postgres.url: %w", err)
		}
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1, got %v", cfg.Tracing.SampleRatio)
	}

	if cfg.Intake.PublishSubmitted && cfg.Notifications.AWS.TopicARN == "" {
		return fmt.Errorf("notifications.aws.topic_arn is required when intake.publish_submitted is set")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
