package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopCatalog/internal/catalog"
)

func TestFromViper_Defaults(t *testing.T) {
	c, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "4000", c.Port)
	assert.Equal(t, ":4000", c.Addr())
	assert.Equal(t, "/api", c.BasePath)
	assert.Equal(t, StoreMemory, c.Store)
	assert.True(t, c.Seed)
	assert.Equal(t, catalog.DefaultCategories, c.Categories)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.True(t, c.MetricsEnabled)
	assert.Equal(t, 60, c.WriteLimitPerMin)
	assert.False(t, c.TrustProxy)
	assert.False(t, c.AuthEnabled())
	assert.Equal(t, 15*time.Minute, c.TokenTTL)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("PORT", ":8082")
	v.Set("CATALOG_STORE", "SQLite")
	v.Set("DATABASE_URL", "file:catalog.db")
	v.Set("CATALOG_CATEGORIES", "Мониторы, Материнские платы ,,")
	v.Set("CATALOG_SEED", "false")
	v.Set("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	v.Set("ADMIN_EMAIL", "admin@example.com")
	v.Set("ADMIN_PASSWORD", "password123")
	v.Set("TOKEN_TTL", "1h")
	v.Set("TRUST_PROXY", "true")

	c, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8082", c.Port)
	assert.Equal(t, StoreSQLite, c.Store)
	assert.Equal(t, []string{"Мониторы", "Материнские платы"}, c.Categories)
	assert.False(t, c.Seed)
	assert.True(t, c.AuthEnabled())
	assert.Equal(t, time.Hour, c.TokenTTL)
	assert.True(t, c.TrustProxy)
}

func TestFromViper_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		set  map[string]any
	}{
		{"unknown store", map[string]any{"CATALOG_STORE": "redis"}},
		{"postgres without dsn", map[string]any{"CATALOG_STORE": "postgres"}},
		{"no categories", map[string]any{"CATALOG_CATEGORIES": " , "}},
		{"relative base path", map[string]any{"CATALOG_BASE_PATH": "api"}},
		{"negative write limit", map[string]any{"WRITE_LIMIT_PER_MIN": -1}},
		{"short jwt secret", map[string]any{"JWT_SECRET": "short", "ADMIN_EMAIL": "a@b.c", "ADMIN_PASSWORD": "p"}},
		{"auth without admin", map[string]any{"JWT_SECRET": "0123456789abcdef0123456789abcdef"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tc.set {
				v.Set(k, val)
			}
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=4100\nCATALOG_SEED=false\n"), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("PORT")
		_ = os.Unsetenv("CATALOG_SEED")
	})

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4100", c.Port)
	assert.False(t, c.Seed)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("CATALOG_STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://catalog@localhost/catalog")

	c, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, c.Store)
	assert.Equal(t, "postgres://catalog@localhost/catalog", c.DSN)
}

