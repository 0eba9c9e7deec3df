// Copyright © 2018 One Concern

// Package workspace locates the dataset working directory and purges
// the local data produced by the collection pipeline.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kardianos/osext"
	"github.com/oneconcern/datareset/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound indicates that the workspace directory does not exist
	ErrNotFound = errors.New("workspace not found")

	// ErrOutsideWorkspace indicates that a path to purge escapes the workspace
	ErrOutsideWorkspace = errors.New("path is outside the workspace")

	// ErrPurge indicates that some local path could not be removed
	ErrPurge = errors.New("local purge failed")
)

// DefaultPurgePaths are the paths written by the collection and rotation jobs
var DefaultPurgePaths = []string{
	"current",
	"batches",
	filepath.Join(".dvc", "cache"),
	".rotate",
}

// executableFolder is patched in tests
var executableFolder = osext.ExecutableFolder

// Locate resolves the workspace directory.
//
// Relative paths are resolved against the folder holding the running executable,
// not the current directory, so the tool behaves the same wherever it is launched from.
func Locate(fs afero.Fs, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		base, err := executableFolder()
		if err != nil {
			return "", fmt.Errorf("resolving executable folder: %w", err)
		}
		dir = filepath.Join(base, dir)
	}
	dir = filepath.Clean(dir)

	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return "", ErrNotFound.Wrap(err)
	}
	if !ok {
		return "", ErrNotFound.WrapMessage(dir)
	}
	return dir, nil
}

// Workspace is a located dataset working directory
type Workspace struct {
	fs   afero.Fs
	root string
}

// New workspace rooted at root, which is expected to have been resolved with Locate
func New(fs afero.Fs, root string) *Workspace {
	return &Workspace{fs: fs, root: root}
}

// Root directory of the workspace
func (w *Workspace) Root() string {
	return w.root
}

// Path joins a workspace relative path to the root. Absolute paths are returned unchanged.
func (w *Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.root, rel)
}

// PurgeResult tells what happened to one purged path
type PurgeResult struct {
	Path    string
	Existed bool
	Removed bool
}

// Purge removes the given workspace relative paths, files or directories.
//
// Missing paths are not an error. Purge stops at the first path that cannot be removed,
// and returns the results gathered so far. With dryRun, nothing is removed.
func (w *Workspace) Purge(paths []string, dryRun bool) ([]PurgeResult, error) {
	targets := make([]string, 0, len(paths))
	for _, rel := range paths {
		target, err := w.contain(rel)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	results := make([]PurgeResult, 0, len(paths))
	for i, target := range targets {
		res := PurgeResult{Path: paths[i]}
		existed, err := afero.Exists(w.fs, target)
		if err != nil {
			return results, ErrPurge.Wrap(fmt.Errorf("checking %s: %w", target, err))
		}
		res.Existed = existed

		if existed && !dryRun {
			if err = w.fs.RemoveAll(target); err != nil {
				return results, ErrPurge.Wrap(fmt.Errorf("removing %s: %w", target, err))
			}
			// some filesystems report success on a partial removal
			if still, _ := afero.Exists(w.fs, target); still {
				return results, ErrPurge.Wrap(fmt.Errorf("%s still exists after removal", target))
			}
			res.Removed = true
		}
		results = append(results, res)
	}
	return results, nil
}

func (w *Workspace) contain(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrOutsideWorkspace.WrapMessage(fmt.Sprintf("%q must be a relative path", rel))
	}
	target := filepath.Join(w.root, rel)
	inner, err := filepath.Rel(w.root, target)
	if err != nil || inner == "." || inner == ".." || strings.HasPrefix(inner, ".."+string(os.PathSeparator)) {
		return "", ErrOutsideWorkspace.WrapMessage(rel)
	}
	return target, nil
}
