package deploy

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/record"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

const manifest = `{
  "name": "fantan-simulator",
  "scripts": {
    "build": "vite build",
    "predeploy": "npm run build",
    "deploy": "gh-pages -d dist"
  },
  "devDependencies": {
    "gh-pages": "^6.1.1"
  }
}
`

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vite.config.js"), []byte("export default {}\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	return dir
}

func useFake(t *testing.T, fake *runner.Fake) {
	t.Helper()
	original := workspace.NewRunner
	workspace.NewRunner = func(io.Writer, io.Writer) runner.Runner { return fake }
	t.Cleanup(func() { workspace.NewRunner = original })
}

func projectFake(dir string, tools ...string) *runner.Fake {
	return runner.NewFake(tools...).
		On("git config --get remote.origin.url", runner.Result{Stdout: "https://github.com/octocat/fantan-simulator.git\n"}).
		Do("npm run build", func(runner.Command) {
			_ = os.MkdirAll(filepath.Join(dir, "dist"), 0755)
			_ = os.WriteFile(filepath.Join(dir, "dist", "index.html"), []byte("<html></html>"), 0644)
		})
}

// runApp runs the app with the given stdin and returns everything written to stdout.
func runApp(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	app := &cli.App{
		Name:     "pagesdeploy",
		Flags:    workspace.Flags(),
		Action:   Action,
		Commands: []*cli.Command{NewDeployCommand()},
		Reader:   strings.NewReader(input),
		Writer:   &out,
		// Prevent os.Exit from being called by urfave/cli during tests
		ExitErrHandler: func(_ *cli.Context, _ error) {},
	}
	err := app.Run(append([]string{"pagesdeploy"}, args...))
	return out.String(), err
}

func TestDeployCommand_Success(t *testing.T) {
	dir := setupProject(t)
	fake := projectFake(dir, "git", "node", "npm")
	useFake(t, fake)

	out, err := runApp(t, "y\nn\n", "--dir", dir, "deploy")
	require.NoError(t, err)
	assert.Contains(t, out, "→ Running: npm install")
	assert.Contains(t, out, "→ Running: npm run deploy")
	assert.Contains(t, out, "Start deployment? (y/N): ")
	assert.Contains(t, out, "✓ Deployment succeeded")
	assert.NotContains(t, out, "Running: git config", "quiet commands are not announced")

	rec, err := record.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, rec.Deployment)
	assert.Equal(t, "https://octocat.github.io/fantan-simulator", rec.Deployment.URL)
}

func TestDeployCommand_IsDefaultAction(t *testing.T) {
	dir := setupProject(t)
	fake := projectFake(dir, "git", "node", "npm")
	useFake(t, fake)

	out, err := runApp(t, "n\n", "--dir", dir)
	require.NoError(t, err, "cancellation exits 0")
	assert.Contains(t, out, "ℹ Deployment cancelled")
	assert.False(t, fake.Ran("npm install"))
}

func TestDeployCommand_EOFCancels(t *testing.T) {
	dir := setupProject(t)
	useFake(t, projectFake(dir, "git", "node", "npm"))

	out, err := runApp(t, "", "--dir", dir, "deploy")
	require.NoError(t, err)
	assert.Contains(t, out, "Deployment cancelled")
}

func TestDeployCommand_FailureExitsOne(t *testing.T) {
	dir := setupProject(t)
	useFake(t, projectFake(dir, "git", "npm"))

	out, err := runApp(t, "y\n", "--dir", dir, "deploy")
	require.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "error should be a cli.ExitCoder")
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "node is not installed")
	assert.Contains(t, out, "✗ node is not installed")
}

func TestDeployCommand_MissingDirectory(t *testing.T) {
	useFake(t, runner.NewFake("git", "node", "npm"))

	_, err := runApp(t, "", "--dir", filepath.Join(t.TempDir(), "nope"), "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDeployCommand_InvalidSettings(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagesdeploy.toml"), []byte(`slug = "a/b"`), 0644))
	useFake(t, projectFake(dir, "git", "node", "npm"))

	_, err := runApp(t, "", "--dir", dir, "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error loading settings")
}

func TestDeployCommand_MissingExplicitConfig(t *testing.T) {
	dir := setupProject(t)
	fake := projectFake(dir, "git", "node", "npm")
	useFake(t, fake)

	_, err := runApp(t, "y\n", "--dir", dir, "--config", filepath.Join(dir, "pagesdeploy.tmol"), "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Empty(t, fake.Calls())
}
