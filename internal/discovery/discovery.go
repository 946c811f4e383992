package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns locate answer sheets below the root.
var DefaultPatterns = []string{
	"**/*.dictation.yaml",
	"**/*.dictation.yml",
	"**/*.dictation.json",
}

// Format is the encoding of an answer sheet.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
)

// String returns the human-readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat determines the sheet format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// File represents a discovered answer sheet.
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Format   Format
	Contents []byte
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	patterns       []string
	exclude        []string
	followSymlinks bool
}

// NewFileDiscovery creates a FileDiscovery. Empty patterns fall back to
// DefaultPatterns. Exclude patterns are matched against paths relative to
// rootPath.
func NewFileDiscovery(rootPath string, patterns, exclude []string) *FileDiscovery {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &FileDiscovery{
		rootPath: rootPath,
		patterns: patterns,
		exclude:  exclude,
	}
}

// FollowSymlinks makes discovery resolve symlinks that stay inside the root.
func (fd *FileDiscovery) FollowSymlinks(follow bool) *FileDiscovery {
	fd.followSymlinks = follow
	return fd
}

// DiscoverFiles is shorthand for NewFileDiscovery(...).DiscoverFiles().
func DiscoverFiles(rootPath string, patterns, exclude []string) ([]File, error) {
	return NewFileDiscovery(rootPath, patterns, exclude).DiscoverFiles()
}

// DiscoverFiles finds every answer sheet matching the patterns, minus
// exclusions. Results are sorted by relative path and contain no duplicates.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	for _, pattern := range fd.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %s", pattern)
		}
	}

	seen := make(map[string]bool)
	var files []File
	for _, pattern := range fd.patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] || fd.excluded(match) {
				continue
			}
			seen[match] = true
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (fd *FileDiscovery) excluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	readPath := fullPath
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		readPath = resolved
		info = resolvedInfo
	}
	if info.IsDir() {
		return File{}, false
	}

	contents, err := os.ReadFile(readPath)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:     fullPath,
		RelPath:  match,
		Size:     info.Size(),
		Format:   DetectFormat(match),
		Contents: contents,
	}, true
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	realRoot, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return "", nil, false
	}
	if rel, err := filepath.Rel(realRoot, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}

	return realPath, info, true
}

// LoadFile reads a single sheet named on the command line. It performs the
// checks of ValidateFilePath and returns the file with RelPath set to the
// path as given.
func LoadFile(path string) (File, error) {
	absPath, err := ValidateFilePath(path)
	if err != nil {
		return File{}, err
	}
	contents, err := os.ReadFile(absPath)
	if err != nil {
		return File{}, fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	return File{
		Path:     absPath,
		RelPath:  filepath.ToSlash(path),
		Size:     int64(len(contents)),
		Format:   DetectFormat(path),
		Contents: contents,
	}, nil
}

// ValidateFilePath checks that path names a readable, non-empty text file
// and returns its absolute, symlink-resolved path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	if DetectFormat(absPath) == FormatUnknown {
		return "", fmt.Errorf("unsupported file type: %s. dictascore reads .yaml, .yml and .json answer sheets", filepath.Base(absPath))
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}
