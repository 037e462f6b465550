package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Matching  MatchingConfig  `yaml:"matching"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Redis     RedisConfig     `yaml:"redis"`
	Template  TemplateConfig  `yaml:"template"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Delivery guarantees for a matching pass.
const (
	GuaranteeExactlyOnce = "exactly_once"
	GuaranteeAtLeastOnce = "at_least_once"
)

// MatchingConfig holds cross-matching settings. Thresholds share one 0-100 scale.
type MatchingConfig struct {
	Preset            string        `yaml:"preset"             env:"MATCHING_PRESET"             env-default:"default"`
	EnglishThreshold  int           `yaml:"english_threshold"  env:"MATCHING_ENGLISH_THRESHOLD"  env-default:"20"`
	ChineseThreshold  int           `yaml:"chinese_threshold"  env:"MATCHING_CHINESE_THRESHOLD"  env-default:"20"`
	CombinedThreshold int           `yaml:"combined_threshold" env:"MATCHING_COMBINED_THRESHOLD" env-default:"20"`
	TitleThreshold    int           `yaml:"title_threshold"    env:"MATCHING_TITLE_THRESHOLD"    env-default:"20"`
	Comparator        string        `yaml:"comparator"         env:"MATCHING_COMPARATOR"         env-default:">="`
	Guarantee         string        `yaml:"guarantee"          env:"MATCHING_GUARANTEE"          env-default:"exactly_once"`
	Workers           int           `yaml:"workers"            env:"MATCHING_WORKERS"            env-default:"8"`
	CategoriesRaw     string        `yaml:"categories"         env:"MATCHING_CATEGORIES"`
	EventLimit        int           `yaml:"event_limit"        env:"MATCHING_EVENT_LIMIT"        env-default:"0"`
	Timeout           time.Duration `yaml:"timeout"            env:"MATCHING_TIMEOUT"            env-default:"10m"`

	// Categories is parsed from CategoriesRaw during validation.
	Categories []string `yaml:"-" env:"-"`
}

// Lock backends for reconciliation.
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// ReconcileConfig holds reconciliation pass settings.
type ReconcileConfig struct {
	Workers     int           `yaml:"workers"      env:"RECONCILE_WORKERS"      env-default:"4"`
	BatchSize   int           `yaml:"batch_size"   env:"RECONCILE_BATCH_SIZE"   env-default:"500"`
	LockBackend string        `yaml:"lock_backend" env:"RECONCILE_LOCK_BACKEND" env-default:"local"`
	LockTTL     time.Duration `yaml:"lock_ttl"     env:"RECONCILE_LOCK_TTL"     env-default:"30s"`
	LockRetry   time.Duration `yaml:"lock_retry"   env:"RECONCILE_LOCK_RETRY"   env-default:"50ms"`
	LockWait    time.Duration `yaml:"lock_wait"    env:"RECONCILE_LOCK_WAIT"    env-default:"10s"`
	Timeout     time.Duration `yaml:"timeout"      env:"RECONCILE_TIMEOUT"      env-default:"10m"`
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `yaml:"url"            env:"REDIS_URL"`
	PoolSize     int           `yaml:"pool_size"      env:"REDIS_POOL_SIZE"      env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"1"`
	DialTimeout  time.Duration `yaml:"dial_timeout"   env:"REDIS_DIAL_TIMEOUT"   env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   env:"REDIS_READ_TIMEOUT"   env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout"  env:"REDIS_WRITE_TIMEOUT"  env-default:"3s"`
}

// TemplateConfig locates monitoring record templates.
type TemplateConfig struct {
	Dir  string `yaml:"dir"  env:"TEMPLATE_DIR"  env-default:"./templates"`
	Name string `yaml:"name" env:"TEMPLATE_NAME" env-default:"ongoing"`
}

// MetricsConfig holds Pushgateway settings. An empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"METRICS_PUSHGATEWAY_URL"`
	Job            string `yaml:"job"             env:"METRICS_JOB"             env-default:"ongoing_monitoring"`
}
