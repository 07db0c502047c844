package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOCIALNET_SECURITY_JWTSECRET", "env-secret")
	t.Setenv("SOCIALNET_DATABASE_DRIVER", "memory")
	t.Setenv("SOCIALNET_HTTP_PORT", "9000")
	t.Setenv("SOCIALNET_SECURITY_TOKENTTL", "2h")
	t.Setenv("SOCIALNET_ALLOWCORSORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "env-secret", cfg.Security.JWTSecret)
	require.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
	require.Equal(t, 9000, cfg.HTTP.Port)
	require.Equal(t, 2*time.Hour, cfg.Security.TokenTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowCORSOrigins)

	require.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	require.Equal(t, "./uploads", cfg.Storage.LocalRoot)
	require.EqualValues(t, 5<<20, cfg.Storage.MaxUploadBytes)
	require.Equal(t, "social:events", cfg.Events.Stream)
	require.Equal(t, time.Hour, cfg.Worker.OrphanGrace)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOCIALNET_DATABASE_DRIVER", "memory")

	_, err := Load()
	require.ErrorContains(t, err, "security.jwtsecret is required")
}

func validConfig() AppConfig {
	return AppConfig{
		Environment: "development",
		Database:    DatabaseConfig{Driver: DatabaseDriverMemory},
		Storage:     StorageConfig{Driver: StorageDriverLocal, LocalRoot: "./uploads", MaxUploadBytes: 1024},
		Security:    SecurityConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		Events:      EventsConfig{Driver: EventsDriverNone},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{
			name:    "short secret in production",
			mutate:  func(c *AppConfig) { c.Environment = "production" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *AppConfig) { c.Database.Driver = DatabaseDriverPostgres },
			wantErr: "database.dsn is required",
		},
		{
			name:    "minio without bucket",
			mutate:  func(c *AppConfig) { c.Storage.Driver = StorageDriverMinio },
			wantErr: "storage.endpoint and storage.bucket",
		},
		{
			name:    "kafka without brokers",
			mutate:  func(c *AppConfig) { c.Events.Driver = EventsDriverKafka },
			wantErr: "events.kafkabrokers",
		},
		{
			name:    "unknown events driver",
			mutate:  func(c *AppConfig) { c.Events.Driver = "nats" },
			wantErr: `unknown events.driver "nats"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
