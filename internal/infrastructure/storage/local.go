package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var _ ObjectStorage = (*LocalStorage)(nil)

// LocalStorage stores documents on the local filesystem. Meant for
// development and single-node deployments; content type is kept in a
// sidecar metadata file next to each object.
type LocalStorage struct {
	root string
}

type localMeta struct {
	ContentType string `json:"content_type"`
}

// NewLocalStorage creates a LocalStorage rooted at dir.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{root: dir}, nil
}

func (l *LocalStorage) paths(key string) (string, string, error) {
	if !ValidKey(key) {
		return "", "", errors.New("invalid storage key")
	}
	obj := filepath.Join(l.root, filepath.FromSlash(key))
	return obj, obj + ".meta", nil
}

// Put writes a document and its content-type sidecar.
func (l *LocalStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	obj, meta, err := l.paths(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(obj, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	raw, err := json.Marshal(localMeta{ContentType: contentType})
	if err != nil {
		return err
	}
	if err := os.WriteFile(meta, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write object metadata: %w", err)
	}
	return nil
}

// Get reads a document back.
func (l *LocalStorage) Get(_ context.Context, key string) (*Object, error) {
	obj, meta, err := l.paths(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(obj)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(meta); err == nil {
		var m localMeta
		if json.Unmarshal(raw, &m) == nil && m.ContentType != "" {
			contentType = m.ContentType
		}
	}

	return &Object{Data: data, ContentType: contentType}, nil
}

// Delete removes a document and its sidecar.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	obj, meta, err := l.paths(key)
	if err != nil {
		return err
	}
	if err := os.Remove(obj); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	_ = os.Remove(meta)
	return nil
}

// Exists checks whether a document is present.
func (l *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	obj, _, err := l.paths(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(obj)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignDownload is unsupported; callers stream local objects instead.
func (l *LocalStorage) PresignDownload(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrPresignUnsupported
}
