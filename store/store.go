// Package store keeps a local history of deploy runs so `nestctl releases`
// can show what was shipped without asking the provider.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cloudnest/nestctl/models"
)

const (
	homeEnv      = "NESTCTL_HOME"
	historyFile  = "releases.yaml"
	historyLimit = 50 // oldest entries are dropped past this
)

var mu sync.Mutex

// historyPath resolves the history file location. NESTCTL_HOME overrides the
// default ~/.nestctl directory.
func historyPath() (string, error) {
	dir := os.Getenv(homeEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".nestctl")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFile), nil
}

// SaveRelease appends one release to the history file.
func SaveRelease(release models.Release) error {
	mu.Lock()
	defer mu.Unlock()

	path, err := historyPath()
	if err != nil {
		return err
	}
	releases, err := readAll(path)
	if err != nil {
		return err
	}
	releases = append(releases, release)
	if len(releases) > historyLimit {
		releases = releases[len(releases)-historyLimit:]
	}

	data, err := yaml.Marshal(releases)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ListReleases returns all recorded releases, oldest first.
func ListReleases() ([]models.Release, error) {
	mu.Lock()
	defer mu.Unlock()

	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	return readAll(path)
}

func readAll(path string) ([]models.Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Release{}, nil
		}
		return nil, err
	}
	var releases []models.Release
	if err := yaml.Unmarshal(data, &releases); err != nil {
		return nil, fmt.Errorf("history file %q is corrupt: %w", path, err)
	}
	return releases, nil
}
