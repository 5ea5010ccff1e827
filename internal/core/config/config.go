// Package config loads the per-project pagesdeploy.toml settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SettingsFileName is the optional per-project settings file.
const SettingsFileName = "pagesdeploy.toml"

// Settings controls one deployment run.
type Settings struct {
	Slug                string   `toml:"slug"`
	DisplayName         string   `toml:"display_name"`
	OutDir              string   `toml:"out_dir"`
	EntryFile           string   `toml:"entry_file"`
	Remote              string   `toml:"remote"`
	Host                string   `toml:"host"`
	PlaceholderIdentity string   `toml:"placeholder_identity"`
	CommitMessage       string   `toml:"commit_message"`
	Tools               Tools    `toml:"tools"`
	Commands            Commands `toml:"commands"`
}

// Tools lists the external executables a run depends on.
type Tools struct {
	Required    []string `toml:"required"`
	RepoCreator string   `toml:"repo_creator"`
}

// Commands names the package-manager scripts and the publish helper.
type Commands struct {
	PackageManager   string `toml:"package_manager"`
	BuildScript      string `toml:"build_script"`
	PublishScript    string `toml:"publish_script"`
	PrepublishScript string `toml:"prepublish_script"`
	PublishHelper    string `toml:"publish_helper"`
}

// Defaults returns the settings used when no settings file is present.
func Defaults() *Settings {
	return &Settings{
		Slug:                "fantan-simulator",
		DisplayName:         "Fantan Simulator",
		OutDir:              "dist",
		EntryFile:           "index.html",
		Remote:              "origin",
		Host:                "github.com",
		PlaceholderIdentity: "yourusername",
		CommitMessage:       "Initial commit",
		Tools: Tools{
			Required:    []string{"git", "node", "npm"},
			RepoCreator: "gh",
		},
		Commands: Commands{
			PackageManager:   "npm",
			BuildScript:      "build",
			PublishScript:    "deploy",
			PrepublishScript: "predeploy",
			PublishHelper:    "gh-pages",
		},
	}
}

// Load reads settings from path on top of the defaults. The file must exist.
func Load(path string) (*Settings, error) {
	s := Defaults()
	if _, err := toml.DecodeFile(path, s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("settings file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return s, nil
}

// LoadDir loads SettingsFileName from dir. A missing file is not an error;
// the defaults are returned unchanged.
func LoadDir(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat settings file %s: %w", path, err)
	}
	return Load(path)
}

// Validate rejects settings that would produce unusable paths or URLs.
func (s *Settings) Validate() error {
	required := []struct{ key, value string }{
		{"slug", s.Slug},
		{"out_dir", s.OutDir},
		{"entry_file", s.EntryFile},
		{"remote", s.Remote},
		{"host", s.Host},
		{"package_manager", s.Commands.PackageManager},
		{"build_script", s.Commands.BuildScript},
		{"publish_script", s.Commands.PublishScript},
		{"prepublish_script", s.Commands.PrepublishScript},
		{"publish_helper", s.Commands.PublishHelper},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s must not be empty", r.key)
		}
	}
	if strings.Contains(s.Slug, "/") {
		return fmt.Errorf("slug %q must not contain '/'", s.Slug)
	}
	if strings.TrimSpace(s.PlaceholderIdentity) == "" {
		return errors.New("placeholder_identity must not be empty")
	}
	return nil
}

// BasePath is the bundler base path the site is served under.
func (s *Settings) BasePath() string {
	return "/" + s.Slug + "/"
}

// HostedURL is the public address of the published site.
func (s *Settings) HostedURL(identity string) string {
	return fmt.Sprintf("https://%s.github.io/%s", identity, s.Slug)
}

// RepoURL is the web address of the source repository.
func (s *Settings) RepoURL(identity string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.Host, identity, s.Slug)
}

// ArtifactPath is the build entry file, relative to the project root.
func (s *Settings) ArtifactPath() string {
	return filepath.Join(s.OutDir, s.EntryFile)
}

// PublishScriptBody is the manifest's publish script.
func (s *Settings) PublishScriptBody() string {
	return fmt.Sprintf("%s -d %s", s.Commands.PublishHelper, filepath.ToSlash(s.OutDir))
}

// PrepublishScriptBody is the manifest's pre-publish script.
func (s *Settings) PrepublishScriptBody() string {
	return fmt.Sprintf("%s run %s", s.Commands.PackageManager, s.Commands.BuildScript)
}
