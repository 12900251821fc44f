// Package fsutil provides file system helpers for hbslint.
// All functions work on a go-billy filesystem so callers can swap the OS for
// an in-memory filesystem in tests.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// MaxFileSize is the largest source file ReadFile accepts.
const MaxFileSize int64 = 8 << 20

// FileInfo captures the state of a file when it was read.
type FileInfo struct {
	// Path is the path the file was read from.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64
}

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates the file exceeds MaxFileSize.
	ErrTooLarge = errors.New("file too large")
)

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, fsys billy.Filesystem, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := fsys.Stat(path)
	if err != nil {
		return nil, nil, categorize(path, err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if stat.Size() > MaxFileSize {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, path, stat.Size(), MaxFileSize)
	}

	content, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, categorize(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}

	return content, info, nil
}

// Exists reports whether path exists on fsys.
func Exists(fsys billy.Filesystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

func categorize(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
