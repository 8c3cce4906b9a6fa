package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auditra/auditra/internal/ports"
)

// FSObjectStore implements the storage lookup collaborator on a local
// directory tree: each bucket is a subdirectory of the root. Deployments
// backed by a real object store swap this adapter behind the same port.
type FSObjectStore struct {
	root string
}

// NewFSObjectStore creates a filesystem-backed object store rooted at root
func NewFSObjectStore(root string) *FSObjectStore {
	return &FSObjectStore{root: root}
}

// Stat reports existence and metadata for one object. A missing object is
// nil info with nil error; only a real lookup failure returns an error.
func (s *FSObjectStore) Stat(ctx context.Context, bucket, path string) (*ports.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, bucket, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if info.IsDir() {
		return nil, nil
	}

	return &ports.ObjectInfo{
		Bucket:         bucket,
		Path:           path,
		SizeBytes:      info.Size(),
		LastModifiedAt: info.ModTime().UTC(),
	}, nil
}
