package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// FileBackend stores each blob as dir/namespace/owner.json. Writes go through
// a temp file and rename so a crash never leaves a torn blob.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the storage directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(namespace, owner string) (string, error) {
	for _, part := range []string{namespace, owner} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid state key %q", part)
		}
	}
	return filepath.Join(b.dir, namespace, owner+".json"), nil
}

func (b *FileBackend) Load(ctx context.Context, namespace, owner string) (Envelope, error) {
	p, err := b.path(namespace, owner)
	if err != nil {
		return Envelope{}, err
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, fmt.Errorf("failed to read state: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse state %s/%s: %w: %w", namespace, owner, ErrCorrupt, err)
	}
	return env, nil
}

func (b *FileBackend) Save(ctx context.Context, namespace, owner string, env Envelope) error {
	p, err := b.path(namespace, owner)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := atomic.WriteFile(p, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(ctx context.Context, namespace, owner string) error {
	p, err := b.path(namespace, owner)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// Prune removes blobs whose file was last written before the cutoff.
func (b *FileBackend) Prune(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := filepath.WalkDir(b.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.ModTime().Before(before) {
			return nil
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("failed to prune state: %w", err)
	}
	return n, nil
}

func (b *FileBackend) Close() error { return nil }
