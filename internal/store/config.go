package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

type StorageConfig struct {
	// Backend is one of: sqlite|file|redis.
	Backend string `toml:"backend" json:"backend"`

	// Key names the persisted record (file base name or redis key).
	Key string `toml:"key" json:"key"`

	RedisAddr string `toml:"redis_addr" json:"redisAddr"`
	RedisDB   int    `toml:"redis_db" json:"redisDb"`
}

type LogConfig struct {
	// Level is one of: debug|info|warn|error.
	Level string `toml:"level" json:"level"`
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Key:       DefaultKey,
			RedisAddr: defaultRedisAddr,
		},
		Log: LogConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.doto).
	if v := strings.TrimSpace(os.Getenv("DOTO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads config.toml over the defaults, then applies DOTO_* env overrides.
// A missing file is not an error.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DOTO_BACKEND")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("DOTO_STORAGE_KEY")); v != "" {
		cfg.Storage.Key = v
	}
	if v := strings.TrimSpace(os.Getenv("DOTO_REDIS_ADDR")); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("DOTO_REDIS_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RedisDB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DOTO_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	// Unique temp name: the TUI and a CLI invocation may write concurrently.
	return atomicWriteFile(filepath.Dir(path), configFileName+".*.tmp", path, buf.Bytes(), 0o600)
}
