package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the blog server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Templates TemplatesConfig `yaml:"templates"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	StaticDir    string `yaml:"static_dir"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	IdleTimeout  string `yaml:"idle_timeout"`
}

// StoreConfig selects where the posts document lives.
type StoreConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, s3
	Path    string `yaml:"path"`
	Name    string `yaml:"name"` // row name for sqlite
	Bucket  string `yaml:"bucket"`
	Key     string `yaml:"key"`
}

type TemplatesConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			StaticDir:    "./static",
			ReadTimeout:  "5s",
			WriteTimeout: "10s",
			IdleTimeout:  "1m",
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "blog_posts.json",
			Name:    "posts",
			Key:     "blog_posts.json",
		},
		Templates: TemplatesConfig{
			Dir: "./templates",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BLOG_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("BLOG_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("BLOG_DATA"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("POSTS_BUCKET"); v != "" {
		c.Store.Bucket = v
	}
	if v := os.Getenv("BLOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "file", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case "s3":
		if c.Store.Bucket == "" {
			return errors.New("store.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	for name, v := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"server.idle_timeout":  c.Server.IdleTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// Timeouts returns the parsed server timeouts. Validate must have passed.
func (s ServerConfig) Timeouts() (read, write, idle time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	idle, _ = time.ParseDuration(s.IdleTimeout)
	return read, write, idle
}
