package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.Origins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/sitters")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)", sqliteDSN("app.db"))
	assert.Equal(t, "app.db?cache=shared&_pragma=foreign_keys(1)", sqliteDSN("app.db?cache=shared"))
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
}

func TestInitDB_InMemory(t *testing.T) {
	db, err := InitDB(DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	for _, table := range []string{"users", "dogs", "sitters", "bookings", "booking_dogs", "booking_status_histories", "reviews"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}
}
