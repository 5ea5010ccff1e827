// Package publish pushes the built site to the hosting branch.
package publish

import (
	"context"
	"fmt"

	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/probe"
	"github.com/nightconcept/pages-deploy/internal/core/prompt"
	"github.com/nightconcept/pages-deploy/internal/core/report"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// Method records which publish attempt succeeded.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Error is returned when both publish attempts fail.
type Error struct {
	Primary  string
	Fallback string
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish failed: %s; fallback also failed: %s", e.Primary, e.Fallback)
}

// Publisher ensures a remote exists and publishes the build output.
type Publisher struct {
	Runner   runner.Runner
	Dir      string
	Settings *config.Settings
	Confirm  prompt.Confirmer
	Report   *report.Reporter
}

// HasRemote reports whether the configured remote is set up.
func (p *Publisher) HasRemote(ctx context.Context) bool {
	res := p.Runner.Run(ctx, runner.Command{
		Name:  "git",
		Args:  []string{"remote", "get-url", p.Settings.Remote},
		Dir:   p.Dir,
		Quiet: true,
	})
	return res.OK()
}

// EnsureRemote offers to create a repository when no remote is configured.
// It returns false only when the operator chose to stop.
func (p *Publisher) EnsureRemote(ctx context.Context, identity string) bool {
	if p.HasRemote(ctx) {
		p.Report.Debug("remote %q is configured", p.Settings.Remote)
		return true
	}

	p.Report.Warning("No remote repository is configured; a GitHub repository is needed first")
	if !p.Confirm.Confirm("Create a new GitHub repository?") {
		return true
	}

	creator := p.Settings.Tools.RepoCreator
	if probe.Available(p.Runner, creator) {
		p.Report.Step("Creating repository with %s...", creator)
		res := p.Runner.Run(ctx, runner.Command{
			Name: creator,
			Args: []string{"repo", "create", p.Settings.Slug, "--public", "--push", "--source=.", "--remote=" + p.Settings.Remote},
			Dir:  p.Dir,
		})
		if !res.OK() {
			p.Report.Warning("Repository creation failed: %s", res.Message())
		}
		return true
	}

	p.printManualSetup(identity)
	return p.Confirm.Confirm("Continue deploying?")
}

func (p *Publisher) printManualSetup(identity string) {
	s := p.Settings
	p.Report.Warning("%s is not installed; create the repository manually:", s.Tools.RepoCreator)
	p.Report.Plain("1. Visit: %s", report.Blue("https://"+s.Host+"/new"))
	p.Report.Plain("2. Repository name: %s", report.Green(s.Slug))
	p.Report.Plain("3. Set visibility to Public")
	p.Report.Plain("4. Do not initialize it with a README")
	p.Report.Plain("")
	p.Report.Plain("Then run:")
	p.Report.Plain("%s", report.Cyan(fmt.Sprintf("git remote add %s https://%s/%s/%s.git", s.Remote, s.Host, identity, s.Slug)))
	p.Report.Plain("%s", report.Cyan(fmt.Sprintf("git push -u %s main", s.Remote)))
}

// Publish runs the manifest's publish script and, if that fails, invokes
// the publish helper directly against the output directory.
func (p *Publisher) Publish(ctx context.Context) (Method, error) {
	s := p.Settings
	p.Report.Step("Deploying...")

	primary := p.Runner.Run(ctx, runner.Command{
		Name: s.Commands.PackageManager,
		Args: []string{"run", s.Commands.PublishScript},
		Dir:  p.Dir,
	})
	if primary.OK() {
		return MethodPrimary, nil
	}

	p.Report.Error("Deployment failed")
	if msg := primary.Message(); msg != "" {
		p.Report.Plain("%s", msg)
	}
	// The primary attempt may already have pushed part of the site.
	p.Report.Warning("Retrying with %s directly; the hosting branch may hold a partial push from the failed attempt", s.Commands.PublishHelper)

	fallback := p.Runner.Run(ctx, runner.Command{
		Name: "npx",
		Args: []string{s.Commands.PublishHelper, "-d", s.OutDir},
		Dir:  p.Dir,
	})
	if fallback.OK() {
		return MethodFallback, nil
	}
	return "", &Error{Primary: primary.Message(), Fallback: fallback.Message()}
}
