// Package uploads stores profile pictures on disk under a content
// directory that the HTTP layer serves statically.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is the public path segment under which the HTTP layer mounts
// the content directory. Stored paths always use it, regardless of where
// the directory lives on disk, so persisted rows stay valid URLs when the
// directory is reconfigured.
const URLPrefix = "uploads"

type Store struct {
	root string
}

// New creates the content directory if needed and returns a store rooted
// there.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("empty uploads directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes the uploaded file as <unix-milli>-<original name> and
// returns its URL-facing path "uploads/<name>" with forward slashes. Two
// saves of the same name within one millisecond collide; callers accept
// that.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(URLPrefix, name), nil
}

// Remove unlinks a previously stored file. Anything that is not a plain
// "uploads/<name>" path is rejected.
func (s *Store) Remove(storedPath string) error {
	name, err := storedName(storedPath)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// storedName extracts the on-disk file name from a stored path, refusing
// anything with directory components beyond the fixed prefix.
func storedName(storedPath string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(storedPath, "\\", "/"))
	dir, name := path.Split(clean)
	if dir != URLPrefix+"/" || name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("path %q is not a stored upload", storedPath)
	}
	return name, nil
}

// sanitizeFilename strips any directory components from a client-supplied
// name, whichever separator the client used.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
