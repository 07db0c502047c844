package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"

	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"

	EventsDriverRedis = "redis"
	EventsDriverKafka = "kafka"
	EventsDriverNone  = "none"

	minProductionSecretLen = 32
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver         string
	LocalRoot      string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	Region         string
	MaxUploadBytes int64
}

type SecurityConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AuthRateLimit float64
	AuthRateBurst int
}

type EventsConfig struct {
	Driver       string
	Stream       string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

type WorkerConfig struct {
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	OrphanGrace   time.Duration
}

type JobsConfig struct {
	OrphanSweep string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Database         DatabaseConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Events           EventsConfig
	Worker           WorkerConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("SOCIALNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports settings that would only fail later at startup.
func (c *AppConfig) Validate() error {
	var errs []error

	secret := strings.TrimSpace(c.Security.JWTSecret)
	switch {
	case secret == "":
		errs = append(errs, errors.New("security.jwtsecret is required"))
	case c.Environment == "production" && len(secret) < minProductionSecretLen:
		errs = append(errs, fmt.Errorf("security.jwtsecret must be at least %d characters in production", minProductionSecretLen))
	}
	if c.Security.TokenTTL <= 0 {
		errs = append(errs, errors.New("security.tokenttl must be positive"))
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for the postgres driver"))
		}
	case DatabaseDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
		if c.Storage.LocalRoot == "" {
			errs = append(errs, errors.New("storage.localroot is required for the local driver"))
		}
	case StorageDriverMinio:
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.endpoint and storage.bucket are required for the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("storage.maxuploadbytes must be positive"))
	}

	switch c.Events.Driver {
	case EventsDriverRedis, EventsDriverNone:
	case EventsDriverKafka:
		if len(c.Events.KafkaBrokers) == 0 || c.Events.KafkaTopic == "" {
			errs = append(errs, errors.New("events.kafkabrokers and events.kafkatopic are required for the kafka driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown events.driver %q", c.Events.Driver))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3800)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("database.driver", DatabaseDriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxopen", 30)
	v.SetDefault("database.maxidle", 5)
	v.SetDefault("database.connmaxlifetime", "30m")
	v.SetDefault("database.automigrate", false)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", StorageDriverLocal)
	v.SetDefault("storage.localroot", "./uploads")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "socialnet-uploads")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.maxuploadbytes", 5<<20)

	v.SetDefault("security.jwtsecret", "")
	v.SetDefault("security.tokenttl", "720h") // 30 days
	v.SetDefault("security.authratelimit", 1.0)
	v.SetDefault("security.authrateburst", 10)

	v.SetDefault("events.driver", EventsDriverRedis)
	v.SetDefault("events.stream", "social:events")
	v.SetDefault("events.kafkabrokers", "")
	v.SetDefault("events.kafkatopic", "social-events")
	v.SetDefault("events.kafkagroupid", "social-workers")

	v.SetDefault("worker.group", "social-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "30s")
	v.SetDefault("worker.orphangrace", "1h")

	v.SetDefault("jobs.orphansweep", "0 30 3 * * *")

	v.SetDefault("allowcorsorigins", "")
}
