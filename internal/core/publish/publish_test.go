package publish_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/prompt"
	"github.com/nightconcept/pages-deploy/internal/core/publish"
	"github.com/nightconcept/pages-deploy/internal/core/report"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

const (
	remoteProbe = "git remote get-url origin"
	repoCreate  = "gh repo create fantan-simulator --public --push --source=. --remote=origin"
	primary     = "npm run deploy"
	fallback    = "npx gh-pages -d dist"
)

func init() {
	color.NoColor = true
}

func newPublisher(fake *runner.Fake, confirm prompt.Confirmer, out *bytes.Buffer) *publish.Publisher {
	return &publish.Publisher{
		Runner:   fake,
		Dir:      ".",
		Settings: config.Defaults(),
		Confirm:  confirm,
		Report:   report.New(out, false),
	}
}

func TestEnsureRemote_ExistingRemote(t *testing.T) {
	fake := runner.NewFake("gh")
	confirm := prompt.NewScripted()
	var out bytes.Buffer

	assert.True(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
	assert.Empty(t, confirm.Questions, "no questions when a remote exists")
	assert.Equal(t, []string{remoteProbe}, fake.Calls())
}

func TestEnsureRemote_DeclineCreationStillProceeds(t *testing.T) {
	fake := runner.NewFake("gh").Fail(remoteProbe, "error: No such remote 'origin'")
	confirm := prompt.NewScripted("n")
	var out bytes.Buffer

	assert.True(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
	assert.Len(t, confirm.Questions, 1)
	assert.False(t, fake.Ran(repoCreate))
}

func TestEnsureRemote_CreatesWithRepoTool(t *testing.T) {
	fake := runner.NewFake("gh").Fail(remoteProbe, "")
	confirm := prompt.NewScripted("y")
	var out bytes.Buffer

	assert.True(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
	assert.True(t, fake.Ran(repoCreate))
}

func TestEnsureRemote_CreationFailureIsAWarning(t *testing.T) {
	fake := runner.NewFake("gh").Fail(remoteProbe, "").Fail(repoCreate, "HTTP 401: Bad credentials")
	confirm := prompt.NewScripted("y")
	var out bytes.Buffer

	assert.True(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
	assert.Contains(t, out.String(), "⚠ Repository creation failed: HTTP 401: Bad credentials")
}

func TestEnsureRemote_NoRepoToolAndOperatorStops(t *testing.T) {
	fake := runner.NewFake().Fail(remoteProbe, "")
	confirm := prompt.NewScripted("y", "n")
	var out bytes.Buffer

	assert.False(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
	assert.Equal(t, []string{"Create a new GitHub repository?", "Continue deploying?"}, confirm.Questions)
	assert.Contains(t, out.String(), "https://github.com/new")
	assert.Contains(t, out.String(), "git remote add origin https://github.com/octocat/fantan-simulator.git")
	assert.Contains(t, out.String(), "git push -u origin main")
	assert.Equal(t, []string{remoteProbe}, fake.Calls(), "nothing but the probe may run")
}

func TestEnsureRemote_NoRepoToolAndOperatorContinues(t *testing.T) {
	fake := runner.NewFake().Fail(remoteProbe, "")
	confirm := prompt.NewScripted("y", "Y")
	var out bytes.Buffer

	assert.True(t, newPublisher(fake, confirm, &out).EnsureRemote(context.Background(), "octocat"))
}

func TestPublish_PrimarySucceeds(t *testing.T) {
	fake := runner.NewFake()
	var out bytes.Buffer

	method, err := newPublisher(fake, prompt.NewScripted(), &out).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, publish.MethodPrimary, method)
	assert.False(t, fake.Ran(fallback))
}

func TestPublish_FallbackSucceeds(t *testing.T) {
	fake := runner.NewFake().Fail(primary, "fatal: could not read Username")
	var out bytes.Buffer

	method, err := newPublisher(fake, prompt.NewScripted(), &out).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, publish.MethodFallback, method)
	assert.Equal(t, []string{primary, fallback}, fake.Calls())
	assert.Contains(t, out.String(), "fatal: could not read Username")
	assert.Contains(t, out.String(), "partial push")
}

func TestPublish_BothFail(t *testing.T) {
	fake := runner.NewFake().Fail(primary, "first").Fail(fallback, "second")
	var out bytes.Buffer

	_, err := newPublisher(fake, prompt.NewScripted(), &out).Publish(context.Background())
	require.Error(t, err)

	var pubErr *publish.Error
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, "first", pubErr.Primary)
	assert.Equal(t, "second", pubErr.Fallback)
}

func TestLauncherFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "open https://x.test", publish.LauncherFor("darwin", "https://x.test").String())
	assert.Equal(t, "xdg-open https://x.test", publish.LauncherFor("linux", "https://x.test").String())
	assert.Equal(t, "rundll32 url.dll,FileProtocolHandler https://x.test", publish.LauncherFor("windows", "https://x.test").String())
}

func TestSystemOpener(t *testing.T) {
	t.Parallel()
	fake := runner.NewFake("xdg-open")
	opener := publish.SystemOpener{Runner: fake, GOOS: "linux"}

	require.NoError(t, opener.Open(context.Background(), "https://octocat.github.io/fantan-simulator"))
	assert.True(t, fake.Ran("xdg-open https://octocat.github.io/fantan-simulator"))

	missing := publish.SystemOpener{Runner: runner.NewFake(), GOOS: "darwin"}
	err := missing.Open(context.Background(), "https://x.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no browser launcher found (open)")
}
