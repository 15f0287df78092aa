// Package export writes extracted HWPX artifacts to disk.
package export

import (
	"errors"
	"fmt"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanpama/hwpx/internal/document"
	"github.com/hanpama/hwpx/internal/hwpx"
)

// ErrExists is returned when the target folder is already present.
var ErrExists = errors.New("export: target already exists")

// Save writes extracted under dir as xmls/<idx>.xml and images/<idx>.jpg.
// dir must not exist yet. Images are re-encoded as JPEG at the given quality.
func Save(extracted *hwpx.Extracted, dir string, quality int) error {
	if err := createDir(dir); err != nil {
		return err
	}
	for _, sub := range []string{"xmls", "images"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", sub, err)
		}
	}

	for idx, xml := range extracted.XMLs {
		path := filepath.Join(dir, "xmls", fmt.Sprintf("%d.xml", idx))
		if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	for idx, img := range extracted.Images {
		path := filepath.Join(dir, "images", fmt.Sprintf("%d.jpg", idx))
		if err := saveJPEG(path, img, quality); err != nil {
			return err
		}
	}

	return nil
}

func saveJPEG(path string, img hwpx.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := jpeg.Encode(f, img.Image, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s as jpeg: %w", img.Name, err)
	}
	return f.Close()
}

// SaveTokens writes each section's text runs, concatenated, to <dir>/<idx>-token.txt.
// dir is created if needed; token files already there are overwritten.
func SaveTokens(tokens [][]document.Text, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	for idx, texts := range tokens {
		var sb strings.Builder
		for _, text := range texts {
			sb.WriteString(text.Content)
		}

		path := filepath.Join(dir, fmt.Sprintf("%d-token.txt", idx))
		if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return nil
}

func createDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
