package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Slack      SlackConfig
	System     SystemConfig
	Mentions   MentionsConfig
	Logging    LoggingConfig
	History    HistoryConfig
	Dedup      DedupConfig
	Events     EventsConfig
	Archive    ArchiveConfig
	CloudWatch CloudWatchConfig
}

type SlackConfig struct {
	Token             string
	Channel           string
	BotUsername       string
	BaseURL           string
	MaxMessageChars   int
	Timeout           time.Duration
	MessagesPerSecond float64
}

type SystemConfig struct {
	// Hostname and Username identify the machine in the notification
	// context line. Blank values are auto-detected at startup.
	Hostname string
	Username string
}

// MentionsConfig maps status names to the mention targets notified for
// that status. User ids are prefixed with @, group ids with !subteam^;
// !here and !channel address the whole channel.
type MentionsConfig map[string][]string

type LoggingConfig struct {
	Level string
	Dir   string
}

type HistoryConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Retention       time.Duration
}

type DedupConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type EventsConfig struct {
	Enabled bool
	URL     string
	Subject string
}

type ArchiveConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
}

type CloudWatchConfig struct {
	LogsEnabled     bool
	LogGroupName    string
	LogStreamName   string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BufferSize      int
	FlushInterval   time.Duration
}

var statusNames = []string{
	"FAILED",
	"WARNING",
	"SUCCESS",
	"NO_UPDATES",
	"NO_UPDATES_REBOOT_PENDING",
	"INFO",
}

func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	slackTimeout, err := time.ParseDuration(getEnv("SLACK_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLACK_TIMEOUT: %w", err)
	}

	maxChars, err := strconv.Atoi(getEnv("SLACK_MAX_CHARS", "12000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLACK_MAX_CHARS: %w", err)
	}

	messagesPerSecond, err := strconv.ParseFloat(getEnv("SLACK_MESSAGES_PER_SECOND", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SLACK_MESSAGES_PER_SECOND: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("HISTORY_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_RETENTION_DAYS: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dedupTTL, err := time.ParseDuration(getEnv("DEDUP_TTL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEDUP_TTL: %w", err)
	}

	cwBufferSize, err := strconv.Atoi(getEnv("CLOUDWATCH_LOGS_BUFFER_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_LOGS_BUFFER_SIZE: %w", err)
	}

	cwFlushInterval, err := time.ParseDuration(getEnv("CLOUDWATCH_LOGS_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_LOGS_FLUSH_INTERVAL: %w", err)
	}

	mentions := make(MentionsConfig, len(statusNames))
	for _, name := range statusNames {
		mentions[name] = splitCSV(getEnv("MENTION_IDS_"+name, ""))
	}

	cfg := &Config{
		Slack: SlackConfig{
			Token:             getEnv("SLACK_TOKEN", ""),
			Channel:           getEnv("SLACK_CHANNEL", ""),
			BotUsername:       getEnv("BOT_USERNAME", "upgrade-notify"),
			BaseURL:           getEnv("SLACK_BASE_URL", "https://slack.com/api/chat.postMessage"),
			MaxMessageChars:   maxChars,
			Timeout:           slackTimeout,
			MessagesPerSecond: messagesPerSecond,
		},
		System: SystemConfig{
			Hostname: getEnv("HOSTNAME", ""),
			Username: getEnv("USERNAME", ""),
		},
		Mentions: mentions,
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dir:   getEnv("LOG_DIR", "./logs/upgrade-notify"),
		},
		History: HistoryConfig{
			Enabled:         getEnvBool("HISTORY_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "upgrade_notify"),
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
			Retention:       time.Duration(retentionDays) * 24 * time.Hour,
		},
		Dedup: DedupConfig{
			Enabled:  getEnvBool("DEDUP_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      dedupTTL,
		},
		Events: EventsConfig{
			Enabled: getEnvBool("EVENTS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Subject: getEnv("EVENTS_SUBJECT", "upgrades.runs"),
		},
		Archive: ArchiveConfig{
			Enabled:         getEnvBool("ARCHIVE_ENABLED", false),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "eu-west-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "reports"),
		},
		CloudWatch: CloudWatchConfig{
			LogsEnabled:     getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			LogGroupName:    getEnv("CLOUDWATCH_LOG_GROUP", "/upgrade-notify/runs"),
			LogStreamName:   getEnv("CLOUDWATCH_LOG_STREAM", ""),
			Region:          getEnv("CLOUDWATCH_REGION", "eu-west-1"),
			Endpoint:        getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:     getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			BufferSize:      cwBufferSize,
			FlushInterval:   cwFlushInterval,
		},
	}

	if cfg.Slack.Token == "" {
		return nil, fmt.Errorf("SLACK_TOKEN is required")
	}
	if cfg.Slack.Channel == "" {
		return nil, fmt.Errorf("SLACK_CHANNEL is required")
	}
	if cfg.Slack.MaxMessageChars <= 0 {
		return nil, fmt.Errorf("SLACK_MAX_CHARS must be positive")
	}
	if cfg.Archive.Enabled && cfg.Archive.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when ARCHIVE_ENABLED=true")
	}

	return cfg, nil
}

// DSN returns the postgres connection string for the history database.
func (c *HistoryConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// Targets returns the mention targets configured for a status name.
func (m MentionsConfig) Targets(status string) []string {
	return m[status]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}
