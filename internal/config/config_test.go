package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		SecretKey:    "a-very-long-production-secret-value-0123456789",
		Port:         "5000",
		Env:          "production",
		DBDriver:     "postgres",
		DBPassword:   "secure-password",
		DBSSLMode:    "require",
		UploadFolder: "static/uploads",
		SessionTTL:   time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production config", func(_ *Config) {}, false},
		{"default secret rejected in production", func(c *Config) { c.SecretKey = DefaultSecretKey }, true},
		{"short secret rejected in production", func(c *Config) { c.SecretKey = "short" }, true},
		{"default secret allowed in development", func(c *Config) {
			c.Env = "development"
			c.SecretKey = DefaultSecretKey
		}, false},
		{"weak db password rejected in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"sqlite needs a path", func(c *Config) {
			c.DBDriver = "sqlite"
			c.DBPath = ""
		}, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing upload folder", func(c *Config) { c.UploadFolder = "" }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("SECRET_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "climate_community.db", cfg.DBPath)
	assert.Equal(t, "static/uploads", cfg.UploadFolder)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("SECRET_KEY", "override-secret")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "override-secret", cfg.SecretKey)
	assert.Equal(t, "9090", cfg.Port)
}

func TestSetDefaults_DBDriverByEnv(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", "postgres"},
		{"prod", "postgres"},
		{"development", "sqlite"},
		{"test", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			v := viper.New()
			v.Set("APP_ENV", tt.env)
			SetDefaults(v)
			assert.Equal(t, tt.want, v.GetString("DB_DRIVER"))
		})
	}

	v := viper.New()
	SetDefaults(v)
	assert.Equal(t, "sqlite", v.GetString("DB_DRIVER"), "unset APP_ENV means development")
}
