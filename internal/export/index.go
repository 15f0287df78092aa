package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// IndexEntry records one extraction in the cache index.
type IndexEntry struct {
	Source   string `yaml:"source"`
	Output   string `yaml:"output"`
	Sections int    `yaml:"sections"`
	Images   int    `yaml:"images"`
}

// LoadIndex reads the cache index at path. A missing file is an empty index.
func LoadIndex(path string) ([]IndexEntry, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []IndexEntry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	return entries, nil
}

// AppendIndex adds entry to the cache index at path, replacing any earlier
// entry for the same source.
func AppendIndex(path string, entry IndexEntry) error {
	entries, err := LoadIndex(path)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Source != entry.Source {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)

	b, err := yaml.Marshal(kept)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
