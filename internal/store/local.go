package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore saves images to a directory on disk. It is the fallback when
// the object store is unreachable, and the home of standalone uploads.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save writes data under the given filename and returns the full path.
func (s *LocalStore) Save(filename string, data []byte) (string, error) {
	p := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

// Read loads a file by name, or by id prefix when no exact match exists
// (uploads are named "<uuid><ext>", so an image id alone still resolves).
func (s *LocalStore) Read(name string) ([]byte, string, error) {
	name = filepath.Base(strings.TrimPrefix(name, "/uploads/"))

	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		match, err := s.findByPrefix(name)
		if err != nil {
			return nil, "", err
		}
		p = match
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	return data, ContentTypeByExt(p), nil
}

func (s *LocalStore) findByPrefix(prefix string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(s.dir, e.Name()), nil
		}
	}
	return "", os.ErrNotExist
}

// Remove deletes a stored file; a missing file is not an error.
func (s *LocalStore) Remove(pathOrName string) error {
	p := filepath.Join(s.dir, filepath.Base(pathOrName))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ContentTypeByExt maps an image filename to its MIME type, defaulting to
// JPEG like the serving endpoints do.
func ContentTypeByExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
