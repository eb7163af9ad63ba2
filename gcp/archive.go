package gcp

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directories never shipped to Cloud Build, mirroring gcloud's implicit
// ignore behavior for source uploads.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
}

const ignoreFile = ".gcloudignore"

// writeSourceArchive tars and gzips the source directory into w. Paths inside
// the archive are slash-separated and relative to dir. Entries matching the
// default skip set or a pattern from .gcloudignore are left out.
func writeSourceArchive(dir string, w io.Writer) error {
	ignores, err := loadIgnorePatterns(dir)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if defaultSkipDirs[d.Name()] || matchesIgnore(ignores, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil // sockets, symlinks etc. are not uploadable
		}
		if d.Name() == ignoreFile || matchesIgnore(ignores, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive %q: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// loadIgnorePatterns reads .gcloudignore from the source root. Supported
// patterns are exact relative paths and path prefixes; blank lines and
// comments are skipped.
func loadIgnorePatterns(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ignoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.Trim(filepath.ToSlash(line), "/"))
	}
	return patterns, nil
}

func matchesIgnore(patterns []string, rel string) bool {
	for _, p := range patterns {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
