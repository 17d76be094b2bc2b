// Package workspace implements the "mymake discover" subcommand: a
// bounded, BFS directory-tree scan for specification files in a
// multi-project repository.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultMaxDepth    = 3
	defaultScanTimeout = 5 * time.Second
)

// DiscoveryOptions configures specification-file discovery behavior
type DiscoveryOptions struct {
	SpecFileName    string        // File name to look for, e.g. "mymake3.mk"
	MaxDepth        int           // Maximum directory depth to search (default: 3)
	ExcludePatterns []string      // Directory names to exclude
	Timeout         time.Duration // Max time to scan (default: 5s)
}

// DefaultDiscoveryOptions returns default discovery settings
func DefaultDiscoveryOptions(specFileName string) DiscoveryOptions {
	if specFileName == "" {
		specFileName = "mymake3.mk"
	}
	return DiscoveryOptions{
		SpecFileName: specFileName,
		MaxDepth:     defaultMaxDepth,
		ExcludePatterns: []string{
			".git",
			"node_modules",
			"vendor",
			".venv",
			"venv",
			"build",
			"dist",
			".cache",
			".idea",
			".vscode",
			"target", // Rust/Java build dir
			"__pycache__",
		},
		Timeout: defaultScanTimeout,
	}
}

// DiscoveryResult represents a discovered specification file
type DiscoveryResult struct {
	Path    string    // Absolute path to the specification file
	RelPath string    // Relative path from search root
	ModTime time.Time // Last modification time
}

// pathDepth tracks path and its depth for BFS
type pathDepth struct {
	path  string
	depth int
}

// DiscoverSpecFiles finds every file named opts.SpecFileName in a
// directory tree using BFS, bounded by MaxDepth and Timeout.
func DiscoverSpecFiles(rootDir string, opts DiscoveryOptions) ([]DiscoveryResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	excludeDirs := make(map[string]bool)
	for _, pattern := range opts.ExcludePatterns {
		excludeDirs[pattern] = true
	}

	var results []DiscoveryResult

	queue := []pathDepth{{path: rootDir, depth: 0}}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return results, nil
		default:
		}

		current := queue[0]
		queue = queue[1:]

		if current.depth > opts.MaxDepth {
			continue
		}

		entries, err := os.ReadDir(current.path)
		if err != nil {
			// Permission denied or other error - skip this directory
			continue
		}

		for _, entry := range entries {
			fullPath := filepath.Join(current.path, entry.Name())

			if entry.IsDir() {
				if excludeDirs[entry.Name()] {
					continue
				}
				queue = append(queue, pathDepth{path: fullPath, depth: current.depth + 1})
				continue
			}

			if entry.Name() != opts.SpecFileName {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			relPath, err := filepath.Rel(rootDir, fullPath)
			if err != nil {
				relPath = fullPath
			}

			results = append(results, DiscoveryResult{
				Path:    fullPath,
				RelPath: relPath,
				ModTime: info.ModTime(),
			})
		}
	}

	return results, nil
}

// FindSpecFileInParents searches upward from a directory for a
// specification file, stopping at the filesystem root or maxLevels.
func FindSpecFileInParents(startDir, specFileName string, maxLevels int) ([]string, error) {
	var results []string
	currentDir := startDir

	for level := 0; level < maxLevels; level++ {
		candidate := filepath.Join(currentDir, specFileName)
		if _, err := os.Stat(candidate); err == nil {
			absPath, _ := filepath.Abs(candidate)
			results = append(results, absPath)
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return results, nil
}

// FormatSize formats a file size in human-readable form
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	units := []string{"KB", "MB", "GB", "TB"}
	div := int64(unit)
	exp := 0

	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	if exp >= len(units) {
		exp = len(units) - 1
	}

	value := float64(bytes) / float64(div)
	return fmt.Sprintf("%.1f %s", value, units[exp])
}
