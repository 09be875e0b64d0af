// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fsio moves commits between memory and disk. All writes are
// atomic (temp file plus rename) and every patch path is resolved
// against a root directory it is not allowed to escape.
// Implements: prd008-fs-commit R1-R4;
//
//	docs/ARCHITECTURE § Filesystem.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// Root anchors all patch-relative paths to one directory.
type Root struct {
	dir string
}

// NewRoot validates dir and returns a Root. The directory must exist.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", dir)
	}
	return &Root{dir: abs}, nil
}

// Dir returns the absolute root directory.
func (r *Root) Dir() string { return r.dir }

// Resolve maps a patch path to an absolute path under the root,
// rejecting anything that climbs out or lands on the root itself.
func (r *Root) Resolve(raw string) (string, error) {
	path := filepath.FromSlash(raw)
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute path %q not allowed in patch", raw)
	}
	abs := filepath.Clean(filepath.Join(r.dir, path))

	rel, err := filepath.Rel(r.dir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", fmt.Errorf("path %q resolves to the root itself", raw)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes root %s", raw, r.dir)
	}
	return abs, nil
}

// LoadFiles reads the given patch-relative paths into memory, keyed by
// the original path strings.
func (r *Root) LoadFiles(paths []string) (map[string]string, error) {
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		abs, err := r.Resolve(p)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		files[p] = string(data)
	}
	return files, nil
}

// WriteFile writes content to a patch-relative path atomically,
// creating parent directories as needed.
func (r *Root) WriteFile(path, content string) error {
	abs, err := r.Resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return atomicWrite(abs, []byte(content))
}

// Remove deletes a patch-relative path.
func (r *Root) Remove(path string) error {
	abs, err := r.Resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(abs)
}

// ApplyCommit writes every change in a commit to disk. A move writes
// the new path before removing the old one, so a crash in between
// loses nothing.
//
// Implements: prd008-fs-commit R3.1-R3.4.
func (r *Root) ApplyCommit(commit types.Commit) error {
	for path, change := range commit.Changes {
		switch change.Type {
		case types.ActionDelete:
			if err := r.Remove(path); err != nil {
				return err
			}

		case types.ActionAdd:
			if change.NewContent == nil {
				return fmt.Errorf("add change for %s has no content", path)
			}
			if err := r.WriteFile(path, *change.NewContent); err != nil {
				return err
			}

		case types.ActionUpdate:
			if change.NewContent == nil {
				return fmt.Errorf("update change for %s has no new content", path)
			}
			target := path
			if change.MovePath != "" {
				target = change.MovePath
			}
			if err := r.WriteFile(target, *change.NewContent); err != nil {
				return err
			}
			if change.MovePath != "" {
				if err := r.Remove(path); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("unknown change type %d for %s", change.Type, path)
		}
	}
	return nil
}

// atomicWrite writes data to a temp file in the target's directory and
// renames it into place, preserving the permissions of an existing
// target.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".reconcile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
