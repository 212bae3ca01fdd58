package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local implements Store using the local file system.
// Writes go to a temporary file in the target directory and are renamed into
// place, so readers never observe partial artifacts.
type Local struct {
	root string
}

// NewLocal creates a new Local store rooted at the given directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (s *Local) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Put writes an artifact atomically via a temp file and rename.
func (s *Local) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// The temp file must live in the target directory so the rename stays on
	// one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return nil
}

// Open reads the full content of an artifact.
func (s *Local) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return data, nil
}

// List returns all artifact names with the given prefix.
func (s *Local) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if strings.HasPrefix(filepath.Base(name), ".tmp-") {
			return nil
		}
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

// Delete removes an artifact. Missing artifacts are ignored.
func (s *Local) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
