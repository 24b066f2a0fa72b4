package platform

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrOutsideRoot is returned for destinations outside the configured root
var ErrOutsideRoot = errors.New("destination is outside the download root")

// DirectoryChooser resolves the destination directory for one download.
// An empty result with a nil error means the user cancelled the selection.
type DirectoryChooser interface {
	ChooseDirectory(ctx context.Context, requested string) (string, error)
}

// PathChooser accepts a client supplied directory. Relative paths are taken
// relative to Base. When Root is set the result must be inside it.
type PathChooser struct {
	Fs   afero.Fs
	Base string
	Root string
}

// NewPathChooser creates a chooser on the given filesystem
func NewPathChooser(fs afero.Fs, base, root string) *PathChooser {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &PathChooser{Fs: fs, Base: base, Root: root}
}

// ChooseDirectory normalizes requested, creates it when missing and checks
// that it is writable. A blank request is a cancellation.
func (c *PathChooser) ChooseDirectory(ctx context.Context, requested string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", nil
	}

	dir, err := c.resolve(requested)
	if err != nil {
		return "", err
	}

	if c.Root != "" {
		root, err := filepath.Abs(c.Root)
		if err != nil {
			return "", fmt.Errorf("failed to resolve download root: %w", err)
		}
		if !IsWithinDir(root, dir) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, dir)
		}
	}

	if err := CreateDirectoryIfNotExists(c.Fs, dir); err != nil {
		return "", err
	}
	if err := CheckWritable(c.Fs, dir); err != nil {
		return "", err
	}

	return dir, nil
}

func (c *PathChooser) resolve(requested string) (string, error) {
	if filepath.IsAbs(requested) {
		return filepath.Clean(requested), nil
	}

	base := c.Base
	if base == "" {
		base = "."
	}
	dir, err := filepath.Abs(filepath.Join(base, requested))
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination %q: %w", requested, err)
	}
	return dir, nil
}

// FixedChooser always returns the same directory. The CLI uses it for --dir.
type FixedChooser string

// ChooseDirectory returns the fixed directory
func (c FixedChooser) ChooseDirectory(ctx context.Context, _ string) (string, error) {
	return string(c), ctx.Err()
}
