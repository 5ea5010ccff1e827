// Package pipeline runs a deployment from tool probing to publishing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nightconcept/pages-deploy/internal/core/audit"
	"github.com/nightconcept/pages-deploy/internal/core/build"
	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/identity"
	"github.com/nightconcept/pages-deploy/internal/core/probe"
	"github.com/nightconcept/pages-deploy/internal/core/prompt"
	"github.com/nightconcept/pages-deploy/internal/core/publish"
	"github.com/nightconcept/pages-deploy/internal/core/record"
	"github.com/nightconcept/pages-deploy/internal/core/report"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// Status is the terminal state of a run.
type Status int

const (
	StatusSuccess Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what a run ended with. Err is set only for StatusFailed.
type Outcome struct {
	Status Status
	Err    error
	URL    string
}

// ConfigError lists the audit checks that could not be satisfied.
type ConfigError struct {
	Failed []audit.Result
}

func (e *ConfigError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, res := range e.Failed {
		names = append(names, res.Name)
	}
	return "configuration check failed: " + strings.Join(names, ", ")
}

// Deployer runs the stages strictly in order. Every external command goes
// through Runner and every question through Confirm.
type Deployer struct {
	Dir      string
	Settings *config.Settings
	Runner   runner.Runner
	Confirm  prompt.Confirmer
	Report   *report.Reporter
	Opener   publish.Opener
	Now      func() time.Time

	identity *identity.Lazy
}

// Identity resolves the publishing account once per Deployer.
func (d *Deployer) Identity(ctx context.Context) string {
	if d.identity == nil {
		d.identity = identity.NewLazy(&identity.Resolver{
			Runner:      d.Runner,
			Dir:         d.Dir,
			Remote:      d.Settings.Remote,
			Host:        d.Settings.Host,
			Placeholder: d.Settings.PlaceholderIdentity,
		})
	}
	return d.identity.Get(ctx)
}

func (d *Deployer) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Audit probes the required tools and then runs the configuration checks,
// applying fixes where possible.
func (d *Deployer) Audit(ctx context.Context) error {
	d.Report.Step("Checking environment...")
	if err := probe.Probe(d.Runner, d.Settings.Tools.Required); err != nil {
		d.Report.Error("%v", err)
		return err
	}
	d.Report.Success("Environment check passed")

	d.Report.Title("Checking configuration")
	auditor := &audit.Auditor{
		Dir: d.Dir,
		Checks: audit.DefaultChecks(audit.Env{
			Dir:      d.Dir,
			Settings: d.Settings,
			Runner:   d.Runner,
			Identity: d.Identity,
		}),
		Report: d.Report,
	}
	rep := auditor.Run(ctx)
	if !rep.Passed() {
		d.Report.Error("Configuration check failed; fix the problems above manually")
		return &ConfigError{Failed: rep.Failed()}
	}
	return nil
}

// Run performs a full deployment.
func (d *Deployer) Run(ctx context.Context) Outcome {
	s := d.Settings
	d.Report.Title("%s: GitHub Pages deployment", s.DisplayName)

	if err := d.Audit(ctx); err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}

	id := d.Identity(ctx)
	url := s.HostedURL(id)
	d.Report.Debug("publishing as %s", id)
	d.showDeployInfo(id)

	if !d.Confirm.Confirm("Start deployment?") {
		d.Report.Info("Deployment cancelled")
		return Outcome{Status: StatusCancelled, URL: url}
	}

	artifact, err := d.build(ctx)
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err, URL: url}
	}

	d.Report.Title("Step 3: Deploy to GitHub Pages")
	pub := &publish.Publisher{
		Runner:   d.Runner,
		Dir:      d.Dir,
		Settings: s,
		Confirm:  d.Confirm,
		Report:   d.Report,
	}
	if !pub.EnsureRemote(ctx, id) {
		d.Report.Info("Deployment cancelled")
		return Outcome{Status: StatusCancelled, URL: url}
	}

	method, err := pub.Publish(ctx)
	if err != nil {
		var pubErr *publish.Error
		if errors.As(err, &pubErr) {
			d.Report.Error("Fallback deployment also failed")
			if pubErr.Fallback != "" {
				d.Report.Plain("%s", pubErr.Fallback)
			}
		}
		return Outcome{Status: StatusFailed, Err: err, URL: url}
	}
	d.Report.Success("Deployment succeeded")

	d.saveRecord(id, url, artifact, method)
	d.showSuccess(id)
	d.offerBrowser(ctx, url)

	return Outcome{Status: StatusSuccess, URL: url}
}

func (d *Deployer) build(ctx context.Context) (*build.Artifact, error) {
	b := &build.Builder{Runner: d.Runner, Dir: d.Dir, Settings: d.Settings}

	d.Report.Title("Step 1: Install dependencies")
	if err := b.Install(ctx); err != nil {
		d.Report.Error("Dependency installation failed")
		return nil, err
	}
	d.Report.Success("Dependencies installed")

	d.Report.Title("Step 2: Build project")
	if err := b.Build(ctx); err != nil {
		d.Report.Error("Build failed")
		var buildErr *build.Error
		if errors.As(err, &buildErr) && buildErr.Output != "" {
			d.Report.Plain("%s", buildErr.Output)
		}
		return nil, err
	}
	d.Report.Success("Build completed")

	d.Report.Step("Verifying build output...")
	artifact, err := b.Verify()
	if err != nil {
		d.Report.Error("Build failed: %v", errors.Unwrap(err))
		return nil, err
	}
	d.Report.Success("Build output verified")
	return artifact, nil
}

// saveRecord writes the deployment record. The site is already live, so a
// write failure only warns.
func (d *Deployer) saveRecord(id, url string, artifact *build.Artifact, method publish.Method) {
	rec, err := record.Load(d.Dir)
	if err != nil {
		d.Report.Debug("starting a fresh record: %v", err)
		rec = record.New()
	}
	rec.SetDeployment(record.Deployment{
		Identity: id,
		URL:      url,
		Artifact: artifact.Path,
		Hash:     artifact.Hash,
		Method:   string(method),
	}, d.now())
	if err := record.Save(d.Dir, rec); err != nil {
		d.Report.Warning("Could not write %s: %v", record.FileName, err)
		return
	}
	d.Report.Debug("wrote %s", record.FileName)
}

func (d *Deployer) offerBrowser(ctx context.Context, url string) {
	if d.Opener == nil {
		return
	}
	if !d.Confirm.Confirm("Open the site now?") {
		return
	}
	if err := d.Opener.Open(ctx, url); err != nil {
		d.Report.Warning("Could not open a browser: %v", err)
		d.Report.Plain("Visit %s", url)
	}
}

func (d *Deployer) showDeployInfo(id string) {
	s := d.Settings
	d.Report.Title("Deployment details")
	d.Report.Plain("%s %s", report.Bold("Project:"), s.DisplayName)
	d.Report.Plain("%s GitHub Pages", report.Bold("Target:"))
	d.Report.Plain("%s %s", report.Bold("URL:"), report.Green(s.HostedURL(id)))
	d.Report.Plain("%s %s", report.Bold("Repository:"), s.RepoURL(id))
	d.Report.Plain("")
}

func (d *Deployer) showSuccess(id string) {
	s := d.Settings
	url := s.HostedURL(id)
	publishCmd := fmt.Sprintf("%s run %s", s.Commands.PackageManager, s.Commands.PublishScript)

	d.Report.Title("Deployment complete")
	d.Report.Plain("%s", report.Bold(s.DisplayName+" has been deployed"))
	d.Report.Plain("")
	d.Report.Plain("%s %s", report.Bold("URL:"), report.Green(url))
	d.Report.Plain("")
	d.Report.Plain("%s", report.Bold("Next steps:"))
	d.Report.Plain("1. Wait 1-2 minutes for GitHub Pages to pick up the change")
	d.Report.Plain("2. Refresh the page to see the site")
	d.Report.Plain("3. To update later, run: %s", report.Cyan(publishCmd))
	d.Report.Plain("")
	d.Report.Plain("%s", report.Bold("Troubleshooting:"))
	d.Report.Plain("1. Make sure the repository is public")
	d.Report.Plain("2. Check Settings → Pages in the repository")
	d.Report.Plain("3. Check the GitHub Actions logs")
	d.Report.Plain("")
	d.Report.Plain("%s", report.Bold("Submission:"))
	d.Report.Plain("```")
	d.Report.Plain("Project: %s", s.DisplayName)
	d.Report.Plain("Live demo: %s", url)
	d.Report.Plain("Source: %s", s.RepoURL(id))
	d.Report.Plain("```")
}
