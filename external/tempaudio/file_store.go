package tempaudio

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/foxseedlab/speakeasy/internal/tempaudio"
)

const filePrefix = "speakeasy-"

type FileStore struct {
	dir string
}

func NewFileStore(dir string) tempaudio.Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) WithFile(data []byte, ext string, fn func(f *os.File) error) error {
	path, err := s.write(data, ext)
	if err != nil {
		return err
	}
	defer s.remove(path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen temp audio file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return fn(f)
}

func (s *FileStore) write(data []byte, ext string) (string, error) {
	f, err := os.CreateTemp(s.dir, filePrefix+"*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		s.remove(path)
		return "", fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		s.remove(path)
		return "", fmt.Errorf("sync temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.remove(path)
		return "", fmt.Errorf("close temp audio file: %w", err)
	}
	return path, nil
}

func (s *FileStore) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove temp audio file", "error", err, "path", path)
	}
}

// Sweep removes files left behind by a process that died mid-request.
func (s *FileStore) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to sweep stale temp audio file", "error", err, "path", path)
			continue
		}
		removed++
	}
	return removed, nil
}
