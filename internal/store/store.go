package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doto/internal/categories"

	"github.com/charmbracelet/log"
)

const (
	DirName = ".doto"

	// DefaultKey names the single persisted record (file name, redis key).
	DefaultKey = "categories"

	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

var (
	ErrCorruptState   = errors.New("corrupt state")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Backend is a categories.Persister that may hold resources.
type Backend interface {
	categories.Persister
	Close() error
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, DirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the store dir: a .doto dir found upward from cwd, else the config dir.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return ConfigDir()
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Backend opens the persister selected by cfg.
func (s Store) Backend(cfg StorageConfig, logger *log.Logger) (Backend, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultKey
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendSQLite:
		return &sqliteBackend{store: s, logger: logger}, nil
	case BackendFile:
		return &fileBackend{store: s, key: key}, nil
	case BackendRedis:
		return newRedisBackend(cfg, key), nil
	default:
		return nil, fmt.Errorf("%w: %q (want sqlite|file|redis)", ErrUnknownBackend, cfg.Backend)
	}
}
