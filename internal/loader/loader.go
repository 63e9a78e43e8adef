// Package loader reads raw catalog records from a directory, one file per tool.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/agent-registry/internal/schema"
)

// DefaultPatterns match every supported record format at the top of the directory
var DefaultPatterns = []string{"*.json", "*.yaml", "*.yml", "*.toml"}

const defaultConcurrency = 8

// DirSource lists record files under Dir. The file name without extension is
// the slug the record is expected to carry.
type DirSource struct {
	Dir         string
	Patterns    []string
	Concurrency int

	fsys fs.FS
}

// NewDirSource creates a directory source with the default patterns
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir, Patterns: DefaultPatterns, Concurrency: defaultConcurrency}
}

// Name describes the source for logs and reports
func (s *DirSource) Name() string {
	return "dir:" + s.Dir
}

func (s *DirSource) filesystem() fs.FS {
	if s.fsys != nil {
		return s.fsys
	}
	return os.DirFS(s.Dir)
}

// Files returns the matching record paths relative to Dir, sorted and deduplicated
func (s *DirSource) Files() ([]string, error) {
	fsys := s.filesystem()
	patterns := s.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if _, ok := schema.FormatFromPath(m); !ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Records reads every matching file. Files are read concurrently but records
// come back in sorted path order. A missing directory is an error; an empty
// one yields no records.
func (s *DirSource) Records(ctx context.Context) ([]schema.Record, error) {
	if s.fsys == nil {
		info, err := os.Stat(s.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("catalog path %s is not a directory", s.Dir)
		}
	}

	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	slog.Info("loading catalog records", "dir", s.Dir, "files", len(files))

	fsys := s.filesystem()
	records := make([]schema.Record, len(files))

	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			format, _ := schema.FormatFromPath(name)
			records[i] = schema.Record{
				Source:       name,
				ExpectedSlug: Stem(name),
				Format:       format,
				Data:         data,
			}
			slog.Debug("record read", "file", name, "bytes", len(data))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// Stem returns the base file name without its extension
func Stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
