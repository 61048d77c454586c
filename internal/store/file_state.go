package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"doto/internal/model"
)

// fileBackend keeps the record as <dir>/<key>.json.
type fileBackend struct {
	store Store
	key   string
}

func (b *fileBackend) path() string {
	return filepath.Join(b.store.Dir, b.key+".json")
}

func (b *fileBackend) Load(ctx context.Context) (model.State, bool, error) {
	raw, err := os.ReadFile(b.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.State{}, false, nil
		}
		return model.State{}, false, err
	}
	st, err := decodeState(raw)
	if err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

func (b *fileBackend) Save(ctx context.Context, st model.State) error {
	if err := b.store.Ensure(); err != nil {
		return err
	}
	raw, err := encodeState(st)
	if err != nil {
		return err
	}
	return atomicWriteFile(b.store.Dir, b.key+".json.*.tmp", b.path(), raw, 0o644)
}

func (b *fileBackend) Close() error { return nil }
