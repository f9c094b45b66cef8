package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// CandidateDirs returns the ordered directories probed for on-disk artifacts:
// the configured search paths first, then the working directory, then the
// executable directory and up to two of its parents.
func CandidateDirs(searchPaths []string) []string {
	dirs := make([]string, 0, len(searchPaths)+4)
	dirs = append(dirs, searchPaths...)
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		for range 3 {
			dirs = append(dirs, dir)
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return dedupe(dirs)
}

// ResolveCandidate returns the first existing regular file named name inside
// dirs. The error lists every probed location when nothing matches.
func ResolveCandidate(name string, dirs []string) (string, error) {
	if filepath.IsAbs(name) {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
		return "", fmt.Errorf("artifact %s not found: %w", name, os.ErrNotExist)
	}
	probed := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		probed = append(probed, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("artifact %s not found in %v: %w", name, probed, os.ErrNotExist)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
