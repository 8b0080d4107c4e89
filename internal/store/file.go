package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
)

// FileStore writes each key to <dir>/<key>.json
type FileStore struct {
	dir      string
	maxBytes int
}

// NewFileStore creates dir if needed
func NewFileStore(dir string, maxBytes int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oops.Code("STORE_OPEN").In("store").Wrapf(err, "creating state directory %s", dir)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", oops.Code("STORE_KEY").In("store").Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStore) Load(_ context.Context, key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("STORE_LOAD").In("store").Wrapf(err, "reading %s", path)
	}
	return string(data), true, nil
}

// Save replaces the file through a temporary file and rename so a crash
// never leaves a half-written value
func (f *FileStore) Save(_ context.Context, key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := checkQuota(key, value, f.maxBytes); err != nil {
		return err
	}

	errb := oops.Code("STORE_SAVE").In("store").With("path", path)
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return errb.Wrapf(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return errb.Wrapf(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errb.Wrapf(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errb.Wrapf(err, "replacing %s", path)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
