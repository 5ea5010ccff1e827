// Package project_test contains tests for the project package.
package project_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/pages-deploy/internal/core/project"
)

const sampleManifest = `{
  "name": "fantan-simulator",
  "private": true,
  "version": "0.0.0",
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "tsc && vite build"
  },
  "dependencies": {
    "react": "^18.2.0"
  },
  "devDependencies": {
    "vite": "^5.0.0"
  }
}
`

func TestNewManifest(t *testing.T) {
	t.Parallel()
	m := project.NewManifest()

	assert.NotNil(t, m.Scripts, "Scripts map should be initialized")
	assert.Empty(t, m.Scripts)
	assert.NotNil(t, m.Dependencies, "Dependencies map should be initialized")
	assert.NotNil(t, m.DevDependencies, "DevDependencies map should be initialized")
	assert.Equal(t, "", m.Homepage)
}

func TestLoad_Valid(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, project.ManifestName), []byte(sampleManifest), 0644))

	m, err := project.Load(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "fantan-simulator", m.Name)
	assert.Equal(t, "vite", m.Scripts["dev"])
	assert.True(t, m.HasDependency("react"))
	assert.True(t, m.HasDependency("vite"), "devDependencies count as declared")
	assert.False(t, m.HasDependency("gh-pages"))
	assert.True(t, m.HasScripts("dev", "build"))
	assert.False(t, m.HasScripts("build", "deploy"))
}

func TestLoad_NotFound(t *testing.T) {
	tempDir := t.TempDir()
	_, err := project.Load(tempDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, project.Exists(tempDir))
}

func TestLoad_InvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, project.ManifestName), []byte(`{"name": `), 0644))

	_, err := project.Load(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse package.json")
}

func TestLoad_WrongFieldType(t *testing.T) {
	_, err := project.Parse([]byte(`{"scripts": ["build"]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"scripts"`)
}

func TestHasScripts_EmptyBodyIsMissing(t *testing.T) {
	m, err := project.Parse([]byte(`{"scripts": {"deploy": "", "predeploy": "npm run build"}}`))
	require.NoError(t, err)
	assert.False(t, m.HasScripts("predeploy", "deploy"))
}

func TestSave_PreservesUnknownFields(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, project.ManifestName), []byte(sampleManifest), 0644))

	m, err := project.Load(tempDir)
	require.NoError(t, err)
	m.SetScript("predeploy", "npm run build")
	m.SetScript("deploy", "gh-pages -d dist")
	m.Homepage = "https://octocat.github.io/fantan-simulator"
	require.NoError(t, m.Save(tempDir))

	data, err := os.ReadFile(filepath.Join(tempDir, project.ManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"private\": true,")
	assert.Contains(t, string(data), `"build": "tsc && vite build"`, "scripts are written without HTML escaping")
	assert.True(t, data[len(data)-1] == '\n', "manifest should end with a newline")

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, true, generic["private"])
	assert.Equal(t, "module", generic["type"])
	assert.Equal(t, "0.0.0", generic["version"])
	assert.Equal(t, "https://octocat.github.io/fantan-simulator", generic["homepage"])

	reloaded, err := project.Load(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "gh-pages -d dist", reloaded.Scripts["deploy"])
	assert.Equal(t, "npm run build", reloaded.Scripts["predeploy"])
	assert.Equal(t, "tsc && vite build", reloaded.Scripts["build"], "existing scripts must survive")
	assert.True(t, reloaded.HasDependency("react"))
}

func TestMarshal_OmitsEmptyUnmodelledSections(t *testing.T) {
	m, err := project.Parse([]byte(`{"name": "site"}`))
	require.NoError(t, err)

	data, err := m.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "devDependencies")
	assert.NotContains(t, string(data), "homepage")
}
