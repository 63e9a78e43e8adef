package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/terra-clan/agent-registry/internal/catalog"
)

// Marshal encodes a document the way it is published: indented, trailing newline
func Marshal(doc any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteDir writes every static document of c under dir and returns the
// relative paths written, sorted
func WriteDir(dir string, c *catalog.Catalog, baseURL string) ([]string, error) {
	docs := Documents(c, baseURL)

	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		data, err := Marshal(docs[p])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", p, err)
		}
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p, err)
		}
	}

	return paths, nil
}
