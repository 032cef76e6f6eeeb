package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  read_timeout: 2s
store:
  backend: sqlite
  path: /tmp/blog.db
templates:
  watch: true
logging:
  format: console
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/blog.db", cfg.Store.Path)
	assert.True(t, cfg.Templates.Watch)
	assert.Equal(t, "console", cfg.Logging.Format)
	// не указанные поля остаются по умолчанию
	assert.Equal(t, "10s", cfg.Server.WriteTimeout)
	assert.Equal(t, "./templates", cfg.Templates.Dir)

	read, write, idle := cfg.Server.Timeouts()
	assert.Equal(t, 2*time.Second, read)
	assert.Equal(t, 10*time.Second, write)
	assert.Equal(t, time.Minute, idle)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BLOG_ADDR", ":7000")
	t.Setenv("BLOG_BACKEND", "s3")
	t.Setenv("POSTS_BUCKET", "my-bucket")
	t.Setenv("BLOG_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "s3", cfg.Store.Backend)
	assert.Equal(t, "my-bucket", cfg.Store.Bucket)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [1, 2"), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	s3NoBucket := filepath.Join(dir, "s3.yaml")
	require.NoError(t, os.WriteFile(s3NoBucket, []byte("store:\n  backend: s3\n"), 0644))
	_, err = Load(s3NoBucket)
	assert.Error(t, err)

	badTimeout := filepath.Join(dir, "timeout.yaml")
	require.NoError(t, os.WriteFile(badTimeout, []byte("server:\n  idle_timeout: soon\n"), 0644))
	_, err = Load(badTimeout)
	assert.Error(t, err)
}
