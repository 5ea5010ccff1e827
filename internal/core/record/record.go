// Package record keeps the pagesdeploy-lock.toml deployment record.
package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = "pagesdeploy-lock.toml"
const APIVersion = "1"

// Deployment describes the last successful publish.
// Example:
// [deployment]
//
//	identity = "octocat"
//	url = "https://octocat.github.io/fantan-simulator"
//	artifact = "dist/index.html"
//	hash = "sha256:<hash_value>"
//	method = "primary"
//	published_at = "2026-01-02T15:04:05Z"
type Deployment struct {
	Identity    string `toml:"identity"`
	URL         string `toml:"url"`
	Artifact    string `toml:"artifact"`
	Hash        string `toml:"hash"`
	Method      string `toml:"method"`
	PublishedAt string `toml:"published_at"`
}

// Record is the structure of the pagesdeploy-lock.toml file.
type Record struct {
	ApiVersion string      `toml:"api_version"`
	Deployment *Deployment `toml:"deployment,omitempty"`
}

// New returns an empty record.
func New() *Record {
	return &Record{ApiVersion: APIVersion}
}

// Load reads the record from dir. A missing file yields an empty record.
func Load(dir string) (*Record, error) {
	path := filepath.Join(dir, FileName)
	rec := New()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return rec, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat record %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", path, err)
	}
	if rec.ApiVersion == "" {
		rec.ApiVersion = APIVersion
	}
	return rec, nil
}

// Save writes rec to dir, replacing any previous record.
func Save(dir string, rec *Record) error {
	path := filepath.Join(dir, FileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create record %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record %s: %w", path, err)
	}
	return nil
}

// SetDeployment replaces the deployment entry. The timestamp is stored in UTC.
func (r *Record) SetDeployment(d Deployment, at time.Time) {
	d.PublishedAt = at.UTC().Format(time.RFC3339)
	r.Deployment = &d
}

// PublishedTime parses the stored timestamp.
func (d *Deployment) PublishedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, d.PublishedAt)
}
