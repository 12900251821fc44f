package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/yaklabco/hbslint/pkg/langdetect"
)

// sniffSize is how much of an extensionless file is read for detection.
const sniffSize = 4096

// skippedDirs are dependency directories never worth descending into.
//
//nolint:gochecknoglobals // Fixed lookup table.
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
}

// Discover finds script files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = osfs.New("/")
	}

	d := &discoverer{
		fs:         fsys,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
	}

	seen := make(map[string]struct{})
	var files []string

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := fsys.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		var found []string
		if info.IsDir() {
			found, err = d.walk(ctx, absPath)
			if err != nil {
				return nil, err
			}
		} else if d.matchesFile(absPath) {
			found = []string{absPath}
		}

		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}

	slices.Sort(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type discoverer struct {
	fs         billy.Filesystem
	workDir    string
	extensions []string
	opts       Options
}

// walk recursively walks a directory and returns matching files.
func (d *discoverer) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := util.Walk(d.fs, root, func(path string, info fs.FileInfo, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		name := filepath.Base(path)

		if info.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			if matchesAny(d.relative(path), d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			target, statErr := d.fs.Stat(path)
			if statErr != nil {
				// Broken symlink, skip silently.
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			if target.IsDir() {
				if !d.opts.FollowSymlinks || strings.HasPrefix(name, ".") {
					return nil
				}
				sub, err := d.walkSymlink(ctx, path)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if d.matchesFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// walkSymlink walks the target of a directory symlink. Files are reported
// under the link path so exclude globs see the path the user sees.
func (d *discoverer) walkSymlink(ctx context.Context, link string) ([]string, error) {
	symlinker, ok := d.fs.(billy.Symlink)
	if !ok {
		return nil, nil
	}

	target, err := symlinker.Readlink(link)
	if err != nil {
		return nil, nil //nolint:nilerr // Unreadable links are skipped like broken ones
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	target = filepath.Clean(target)

	// A link into its own ancestry would recurse forever.
	if strings.HasPrefix(link+string(filepath.Separator), target+string(filepath.Separator)) {
		return nil, nil
	}

	sub, err := d.walk(ctx, target)
	if err != nil {
		return nil, err
	}

	for i, f := range sub {
		rel, relErr := filepath.Rel(target, f)
		if relErr == nil {
			sub[i] = filepath.Join(link, rel)
		}
	}
	return sub, nil
}

// relative returns path relative to the working directory, slash-separated.
func (d *discoverer) relative(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// matchesFile checks if a file path matches the inclusion criteria.
func (d *discoverer) matchesFile(path string) bool {
	relPath := d.relative(path)

	if matchesAny(relPath, d.opts.ExcludeGlobs) {
		return false
	}

	if len(d.opts.IncludeGlobs) > 0 && !matchesAny(relPath, d.opts.IncludeGlobs) {
		return false
	}

	if hasMatchingExtension(path, d.extensions) {
		return true
	}

	return d.opts.DetectExtensionless && filepath.Ext(path) == "" && d.looksLikeScript(path)
}

// looksLikeScript sniffs the head of path for JavaScript or TypeScript.
func (d *discoverer) looksLikeScript(path string) bool {
	f, err := d.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}

	return langdetect.IsScript(head[:n])
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// matchesAny reports whether relPath matches one of patterns.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a doublestar pattern.
// Patterns without a slash also match the file's base name, so "*.min.js"
// excludes minified files at any depth.
func matchGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}

	if !strings.Contains(pattern, "/") {
		matched, err := doublestar.Match(pattern, filepath.Base(path))
		return err == nil && matched
	}

	return false
}

// ValidateGlob reports whether pattern is a valid doublestar pattern.
func ValidateGlob(pattern string) bool {
	return doublestar.ValidatePattern(filepath.ToSlash(pattern))
}
