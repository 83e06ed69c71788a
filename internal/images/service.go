package images

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/models"
)

// ObjectStore is the binary object backend (MinIO in production).
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// FileStore is the local-filesystem fallback backend.
type FileStore interface {
	Save(filename string, data []byte) (string, error)
	Read(name string) ([]byte, string, error)
	Remove(pathOrName string) error
}

// Service stores, serves, and deletes outfit images across backends. The
// object store may be nil (unreachable at startup); everything then runs on
// the local filesystem.
type Service struct {
	objects ObjectStore
	files   FileStore
	log     *zap.Logger
}

func NewService(objects ObjectStore, files FileStore, log *zap.Logger) *Service {
	return &Service{objects: objects, files: files, log: log}
}

// Store tries the object store first and falls back to local disk. The
// returned ImageRef records which path succeeded, so deletion later targets
// the right backend.
func (s *Service) Store(ctx context.Context, ext string, data []byte, contentType string) (models.ImageRef, error) {
	key := uuid.NewString() + ext

	if s.objects != nil {
		err := s.objects.Put(ctx, key, data, contentType)
		if err == nil {
			return models.ObjectImage(key), nil
		}
		s.log.Warn("object store upload failed, saving locally", zap.Error(err))
	}

	p, err := s.files.Save(key, data)
	if err != nil {
		return models.ImageRef{}, err
	}
	return models.LocalImage(p), nil
}

// StoreLocal writes directly to the uploads directory and returns the
// generated filename; used by the standalone upload endpoint.
func (s *Service) StoreLocal(ext string, data []byte) (string, error) {
	filename := uuid.NewString() + ext
	if _, err := s.files.Save(filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

// Fetch resolves an image identifier against the object store, then the
// local filesystem. Callers fall back to a placeholder redirect when both
// miss.
func (s *Service) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	if s.objects != nil {
		if data, ct, err := s.objects.Get(ctx, id); err == nil {
			return data, ct, nil
		}
	}
	return s.files.Read(id)
}

// Delete removes the backing binary for a reference, branching on its
// recorded storage mode. Failures are logged, never fatal: the document
// delete that follows must not be blocked by a missing binary.
func (s *Service) Delete(ctx context.Context, ref models.ImageRef) {
	switch ref.Mode {
	case models.StorageObject:
		if s.objects == nil {
			return
		}
		if err := s.objects.Remove(ctx, ref.ObjectID); err != nil {
			s.log.Warn("object store delete failed", zap.String("key", ref.ObjectID), zap.Error(err))
		}
	case models.StorageLocal:
		if err := s.files.Remove(ref.LocalPath); err != nil {
			s.log.Warn("local file delete failed", zap.String("path", ref.LocalPath), zap.Error(err))
		}
	}
	// External URLs and empty refs hold no binary of ours.
}

// PlaceholderURL is where image serving redirects when every backend
// missed, so a broken reference degrades to a stock photo instead of a
// broken layout.
func PlaceholderURL(id string) string {
	return "https://picsum.photos/seed/" + id + "/600/800.jpg"
}
