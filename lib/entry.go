package lib

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// entryPatterns converts a declared entry value into a list of patterns.
func entryPatterns(key string, v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		patterns := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w (entry %q)", ErrInvalidEntry, key)
			}
			patterns = append(patterns, s)
		}
		return patterns, nil
	default:
		return nil, fmt.Errorf("%w (entry %q)", ErrInvalidEntry, key)
	}
}

// entryConfig returns the entry fragment. In bundle mode the entries pass
// through for the engine to resolve; in bundleless mode the globs are
// expanded to one entry per source file.
func entryConfig(entries map[string]any, bundle bool, root string) (Config, error) {
	if len(entries) == 0 {
		return Config{}, nil
	}
	if bundle {
		m := make(map[string][]string, len(entries))
		for key, v := range entries {
			patterns, err := entryPatterns(key, v)
			if err != nil {
				return Config{}, err
			}
			m[key] = patterns
		}
		return Config{Source: SourceConfig{Entry: m}}, nil
	}
	resolved, outBase, err := ResolveEntries(root, entries)
	if err != nil {
		return Config{}, err
	}
	m := make(map[string][]string, len(resolved))
	for name, file := range resolved {
		m[name] = []string{file}
	}
	return Config{Source: SourceConfig{Entry: m}, Output: OutputConfig{OutBase: outBase}}, nil
}

// ResolveEntries expands the entry globs against root into a map from
// output entry name to absolute source file, and returns the output base.
//
// The output base is the longest common path of all matched files, or
// root when they share nothing but the filesystem root. Entry names are
// the outbase-relative paths without extension, so the emitted files keep
// the source directory structure.
func ResolveEntries(root string, entries map[string]any) (map[string]string, string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, "", err
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var files []string
	seen := map[string]bool{}
	for _, key := range keys {
		patterns, err := entryPatterns(key, entries[key])
		if err != nil {
			return nil, "", err
		}
		matched, err := globFiles(root, patterns)
		if err != nil {
			return nil, "", err
		}
		if len(matched) == 0 {
			return nil, "", fmt.Errorf("%w: cannot find any file for entry %q (%s)", ErrEntryNotFound, key, strings.Join(patterns, ", "))
		}
		for _, file := range matched {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}
	sort.Strings(files)

	outBase, ok := LongestCommonPath(files)
	if !ok {
		outBase = toSlash(root)
	}

	resolved := make(map[string]string, len(files))
	for _, file := range files {
		rel := strings.TrimPrefix(strings.TrimPrefix(toSlash(file), outBase), "/")
		name := strings.TrimSuffix(rel, path.Ext(rel))
		if prev, ok := resolved[name]; ok {
			return nil, "", fmt.Errorf("%w: %q and %q both map to entry %q", ErrEntryCollision, prev, file, name)
		}
		resolved[name] = file
	}
	return resolved, outBase, nil
}

// globFiles returns the absolute files matched by the patterns.
func globFiles(root string, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		if filepath.IsAbs(pattern) {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid entry pattern %q: %w", pattern, err)
			}
			files = append(files, matches...)
			continue
		}
		pattern = path.Clean(toSlash(pattern))
		if strings.HasPrefix(pattern, "../") {
			matches, err := doublestar.FilepathGlob(filepath.Join(root, filepath.FromSlash(pattern)), doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid entry pattern %q: %w", pattern, err)
			}
			files = append(files, matches...)
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid entry pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			files = append(files, filepath.Join(root, filepath.FromSlash(m)))
		}
	}
	return files, nil
}
