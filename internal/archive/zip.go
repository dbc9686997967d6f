// Package archive unpacks downloaded ZIP exports into a scratch directory.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Unpack wipes dir and extracts the ZIP held in data into it. Entries
// whose names escape the directory are rejected.
func Unpack(data []byte, dir string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("archive: open zip: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("archive: wipe %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: create %s: %w", dir, err)
	}

	for _, file := range reader.File {
		if err := extract(file, dir); err != nil {
			return err
		}
	}

	return nil
}

func extract(file *zip.File, dir string) error {
	name := filepath.FromSlash(file.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("archive: entry %q escapes target directory", file.Name)
	}
	target := filepath.Join(dir, name)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("archive: open entry %q: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("archive: extract %q: %w", file.Name, err)
	}
	return nil
}

// Documents lists every HTML file under dir, recursively. The export
// archives sometimes carry one document per sheet.
func Documents(dir string) ([]string, error) {
	var docs []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: scan %s: %w", dir, err)
	}

	return docs, nil
}
