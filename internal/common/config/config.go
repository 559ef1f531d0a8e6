// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Intake        IntakeConfig            `mapstructure:"intake"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// CamundaConfig is optional: an empty broker address disables the job worker.
type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

func (c CamundaConfig) Enabled() bool { return c.BrokerAddress != "" }

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// PostgresConfig describes the intake datastore. URL and Key are both
// required for submissions; their absence is reported per submission rather
// than at load time.
type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Key            string `mapstructure:"key"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	ConnMaxLife    int    `mapstructure:"conn_max_lifetime"` // milliseconds
	SSLMode        string `mapstructure:"sslmode"`
}

// Configured reports whether both datastore settings are present.
func (p PostgresConfig) Configured() bool {
	return strings.TrimSpace(p.URL) != "" && strings.TrimSpace(p.Key) != ""
}

// GetDSN returns the connection URL with Key as the password and the
// configured sslmode applied when the URL does not set one.
func (p PostgresConfig) GetDSN() (string, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return "", fmt.Errorf("parse datastore url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("datastore url must use postgres scheme, got %q", u.Scheme)
	}

	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, p.Key)

	q := u.Query()
	if q.Get("sslmode") == "" && p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// RedisConfig holds the session store connection. Address may be host:port
// or a redis:// or rediss:// URL.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (r RedisConfig) Enabled() bool { return r.Address != "" }

// ElasticsearchConfig points at the operator search index. Indexing is an
// advisory effect and is off when no address is set.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

func (e ElasticsearchConfig) Enabled() bool { return len(e.Addresses) > 0 }

// IntakeConfig tunes the wizard sessions.
type IntakeConfig struct {
	CatalogPath      string `mapstructure:"catalog_path"`
	SessionTTL       int    `mapstructure:"session_ttl"`       // milliseconds
	DraftTTL         int    `mapstructure:"draft_ttl"`         // milliseconds
	SubmitTimeout    int    `mapstructure:"submit_timeout"`    // milliseconds
	MaxBodyBytes     int64  `mapstructure:"max_body_bytes"`
	EnsureSchema     bool   `mapstructure:"ensure_schema"`
	PublishSubmitted bool   `mapstructure:"publish_submitted"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// NotificationConfig selects and configures the operator email channel and
// the optional submission event topic.
type NotificationConfig struct {
	Provider        string `mapstructure:"provider"` // resend, smtp or ses
	APIKey          string `mapstructure:"api_key"`
	OperatorAddress string `mapstructure:"operator_address"`
	FromAddress     string `mapstructure:"from_address"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds

	Resend struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"resend"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	AWS struct {
		Region          string `mapstructure:"region"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		TopicARN        string `mapstructure:"topic_arn"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig controls span export. With no Jaeger endpoint spans are
// sampled but never leave the process.
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}
