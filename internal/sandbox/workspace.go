package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is an exclusively-owned per-job directory: created on entry,
// guaranteed removed on every exit path (spec.md §3 "Ownership &
// lifecycles", Invariant I4). Directory names are random 128-bit
// identifiers so concurrent jobs never collide (spec.md §5 "Shared
// resources").
type Workspace struct {
	Path string
}

// NewWorkspace creates a fresh, world-writable subdirectory of root so the
// container's unprivileged user can compile and run inside it.
func NewWorkspace(root string) (*Workspace, error) {
	path := filepath.Join(root, uuid.New().String())
	if err := os.MkdirAll(path, 0o777); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	// MkdirAll applies umask; force the permission the container's
	// non-root user needs to write compiled artifacts.
	if err := os.Chmod(path, 0o777); err != nil {
		os.RemoveAll(path)
		return nil, fmt.Errorf("setting workspace permissions: %w", err)
	}
	return &Workspace{Path: path}, nil
}

// Close removes the workspace directory. Callers must defer this
// immediately after NewWorkspace succeeds, before any other operation that
// could panic or return early.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.Path)
}

// WriteFile writes content into the workspace under name, returning the
// full path.
func (w *Workspace) WriteFile(name, content string) (string, error) {
	path := filepath.Join(w.Path, name)
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
