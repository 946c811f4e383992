// Package project locates the directory a grading run belongs to.
package project

import (
	"os"
	"path/filepath"
)

// FindRoot climbs from startPath towards the filesystem root and returns
// the first directory holding one of markers or a .git entry. When nothing
// matches, the absolute startPath is returned.
func FindRoot(startPath string, markers ...string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isRoot(currentDir, markers) {
			return currentDir, nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return absPath, nil
}

// FindFile returns the first of names present in the root found from
// startPath. ok is false when none exists.
func FindFile(startPath string, names ...string) (path string, ok bool, err error) {
	root, err := FindRoot(startPath, names...)
	if err != nil {
		return "", false, err
	}
	for _, name := range names {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

func isRoot(dir string, markers []string) bool {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	// A repository boundary stops the climb.
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
