package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PublicPrefix is the URL path prefix under which stored files are served.
// Recorded picture paths are relative to the server root, e.g.
// "uploads/picture-1712345678901.png", matching what clients prepend the
// API origin to.
const PublicPrefix = "uploads"

// FileStore saves uploaded pictures to disk under a base directory.
type FileStore struct {
	basePath string
	now      func() time.Time
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath, now: time.Now}, nil
}

// BasePath returns the directory files are written to.
func (f *FileStore) BasePath() string {
	return f.basePath
}

// Save writes one uploaded file under a generated collision-free name of the
// form "<field>-<millisecond timestamp><original extension>" and returns the
// relative path to record on the owning row.
func (f *FileStore) Save(field, originalName string, r io.Reader) (string, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		field = "file"
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := fmt.Sprintf("%s-%d%s", field, f.now().UnixMilli(), ext)
	target := filepath.Join(f.basePath, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		// Never leave a partial file behind.
		_ = os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a previously saved file by its recorded relative path.
// Used to compensate when the row insert fails after the file write.
func (f *FileStore) Remove(relPath string) error {
	name := path.Base(relPath)
	if name == "" || name == "." || name == "/" {
		return nil
	}
	target := filepath.Join(f.basePath, name)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(target)
}
