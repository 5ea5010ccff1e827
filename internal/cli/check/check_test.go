package check

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

func runCheck(t *testing.T, fake *runner.Fake, dir string) (string, error) {
	t.Helper()
	color.NoColor = true
	original := workspace.NewRunner
	workspace.NewRunner = func(io.Writer, io.Writer) runner.Runner { return fake }
	t.Cleanup(func() { workspace.NewRunner = original })

	var out bytes.Buffer
	app := &cli.App{
		Flags:          workspace.Flags(),
		Commands:       []*cli.Command{NewCheckCommand()},
		Writer:         &out,
		ExitErrHandler: func(_ *cli.Context, _ error) {},
	}
	err := app.Run([]string{"pagesdeploy", "--dir", dir, "check"})
	return out.String(), err
}

func TestCheckCommand_RepairsProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"site"}`), 0644))
	fake := runner.NewFake("git", "node", "npm")

	out, err := runCheck(t, fake, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ package.json: ok")
	assert.Contains(t, out, "✓ bundler config: fixed")
	assert.Contains(t, out, "✓ Project is ready to deploy")
	assert.True(t, fake.Ran("npm install --save-dev gh-pages"))
	assert.True(t, fake.Ran("git init"))
	assert.False(t, fake.Ran("npm install"), "check never builds")

	_, err = os.Stat(filepath.Join(dir, "vite.config.ts"))
	assert.NoError(t, err)
}

func TestCheckCommand_MissingManifestFails(t *testing.T) {
	out, err := runCheck(t, runner.NewFake("git", "node", "npm"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration check failed: package.json")
	assert.Contains(t, out, "✗ package.json: failed, no automatic fix available")
}

func TestCheckCommand_MissingTool(t *testing.T) {
	_, err := runCheck(t, runner.NewFake("node", "npm"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git is not installed")
}
