package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"TMS_APP_NAME":          os.Getenv("TMS_APP_NAME"),
		"TMS_APP_ENV":           os.Getenv("TMS_APP_ENV"),
		"TMS_APP_PORT":          os.Getenv("TMS_APP_PORT"),
		"TMS_DATABASE_HOST":     os.Getenv("TMS_DATABASE_HOST"),
		"TMS_DATABASE_PASSWORD": os.Getenv("TMS_DATABASE_PASSWORD"),
		"TMS_DATABASE_SSLMODE":  os.Getenv("TMS_DATABASE_SSLMODE"),
		"TMS_JWT_SECRET":        os.Getenv("TMS_JWT_SECRET"),
		"TMS_STORAGE_DRIVER":    os.Getenv("TMS_STORAGE_DRIVER"),
		"TMS_STORAGE_BUCKET":    os.Getenv("TMS_STORAGE_BUCKET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "tms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "tms", cfg.Database.DBName)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Tracing.Enabled)
		assert.Equal(t, "tms-backend", cfg.Tracing.ServiceName)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("TMS_APP_PORT", "9090")
		os.Setenv("TMS_DATABASE_HOST", "db.internal")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})

	t.Run("s3 driver requires bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("TMS_STORAGE_DRIVER", "s3")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("TMS_STORAGE_BUCKET", "tms-documents")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "tms-documents", cfg.Storage.Bucket)
	})

	t.Run("production requires jwt secret and db password", func(t *testing.T) {
		clearEnv()
		os.Setenv("TMS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("TMS_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		os.Setenv("TMS_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("TMS_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "tms",
		Password: "p@ss/word",
		DBName:   "tms",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRefreshSigningSecret(t *testing.T) {
	j := JWTConfig{Secret: "access"}
	assert.Equal(t, "access", j.RefreshSigningSecret())

	j.RefreshSecret = "refresh"
	assert.Equal(t, "refresh", j.RefreshSigningSecret())
}
