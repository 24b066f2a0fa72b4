package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constants
const (
	MaxFilenameLength = 120
	DefaultFileName   = "video"
	DefaultExtension  = "mp4"
	DownloadsDirName  = "Downloads"
)

// Output template fields understood by ExpandTemplate
const (
	TemplateTitle = "%(title)s"
	TemplateExt   = "%(ext)s"
	TemplateID    = "%(id)s"
)

// File extensions to skip
var (
	SkippedExtensions = []string{".part", ".ytdl", ".tmp"}
)

var (
	// ErrOutputNotFound means neither the reported file nor a sibling exists
	ErrOutputNotFound = errors.New("expected output not found")
	// ErrNotWritable means a probe file could not be created in a directory
	ErrNotWritable = errors.New("directory is not writable")

	unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(fs afero.Fs, dirPath string) error {
	exists, err := afero.DirExists(fs, dirPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dirPath, err)
	}
	if exists {
		return nil
	}
	if err := fs.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create %s: %w", dirPath, err)
	}
	return nil
}

// CheckWritable creates and removes a probe file inside dir
func CheckWritable(fs afero.Fs, dir string) error {
	f, err := afero.TempFile(fs, dir, ".ytweb-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := f.Name()
	f.Close()
	return fs.Remove(name)
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsDirName), nil
}

// SafeFilename builds "<title>.<ext>" with path separators and other unsafe
// characters replaced, so the result always stays a single path element.
func SafeFilename(title, ext string) string {
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(title, "_"))
	name = strings.Trim(name, ".")
	if name == "" {
		name = DefaultFileName
	}
	if len(name) > MaxFilenameLength {
		// cut on a rune boundary so the name stays valid UTF-8
		cut := MaxFilenameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}

	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return name + "." + ext
}

// ExpandTemplate renders an output filename template for the native engine.
// Only the title, ext and id fields are supported.
func ExpandTemplate(template, id, title, ext string) string {
	if template == "" {
		template = TemplateTitle + "." + TemplateExt
	}

	base := SafeFilename(title, ext)
	safeTitle := strings.TrimSuffix(base, filepath.Ext(base))
	safeExt := strings.TrimPrefix(filepath.Ext(base), ".")
	safeID := strings.TrimSuffix(SafeFilename(id, "x"), ".x")

	r := strings.NewReplacer(TemplateTitle, safeTitle, TemplateExt, safeExt, TemplateID, safeID)
	name := filepath.Base(filepath.Clean(r.Replace(template)))
	if name == "." || name == string(filepath.Separator) {
		return base
	}
	return name
}

// IsWithinDir reports whether path equals root or lies below it.
// Both arguments are expected to be absolute.
func IsWithinDir(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// FindOutputFile returns filePath if it exists. Otherwise it looks for a
// sibling with the same base name and another extension, which is what is
// left behind when the engine changes container while merging.
func FindOutputFile(fs afero.Fs, filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("%w: empty path", ErrOutputNotFound)
	}

	if ok, err := afero.Exists(fs, filePath); err == nil && ok {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	originalName := filepath.Base(filePath)
	baseName := strings.TrimSuffix(originalName, filepath.Ext(originalName))

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutputNotFound, filePath, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		entryName := entry.Name()
		if isSkippedFile(entryName) {
			continue
		}
		entryExt := filepath.Ext(entryName)
		if entryExt == "" {
			continue
		}
		if strings.TrimSuffix(entryName, entryExt) == baseName {
			candidates = append(candidates, filepath.Join(dir, entryName))
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s", ErrOutputNotFound, filePath)
	}

	sort.Strings(candidates)
	return candidates[0], nil
}

// FileSize returns the size of an existing file
func FileSize(fs afero.Fs, filePath string) (int64, error) {
	info, err := fs.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func isSkippedFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
