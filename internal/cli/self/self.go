// Package self implements commands that manage the pagesdeploy binary itself.
package self

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/prompt"
	"github.com/nightconcept/pages-deploy/internal/core/report"
)

// DefaultSource is the GitHub repository releases are fetched from.
const DefaultSource = "nightconcept/pages-deploy"

// NewSelfCommand creates a new command for self-management.
func NewSelfCommand() *cli.Command {
	return &cli.Command{
		Name:  "self",
		Usage: "Manage the pagesdeploy CLI application itself",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update pagesdeploy to the latest version",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Automatically confirm the update",
					},
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Check for available updates without installing",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Specify a custom GitHub update source as 'owner/repo' (e.g., '" + DefaultSource + "')",
					},
				},
				Action: updateAction,
			},
		},
	}
}

// ParseVersion accepts versions with or without a leading "v".
func ParseVersion(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return nil, fmt.Errorf("error parsing current version '%s': %w; ensure version is like vX.Y.Z or X.Y.Z", v, err)
	}
	return parsed, nil
}

// ParseSource validates an 'owner/repo' slug. An empty value selects DefaultSource.
func ParseSource(source string) (string, error) {
	if source == "" {
		return DefaultSource, nil
	}
	parts := strings.Split(source, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid --source format; expected 'owner/repo', got: %s", source)
	}
	return source, nil
}

func updateAction(c *cli.Context) error {
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	rep := report.New(out, c.Bool(workspace.FlagVerbose))
	current := c.App.Version

	currentSemVer, err := ParseVersion(current)
	if err != nil {
		return cli.Exit("Error: "+err.Error(), 1)
	}
	rep.Debug("current version: %s", currentSemVer)

	repoSlug, err := ParseSource(c.String("source"))
	if err != nil {
		return cli.Exit("Error: "+err.Error(), 1)
	}
	rep.Debug("using GitHub source: %s", repoSlug)

	ghSource, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating GitHub source: %v", err), 1)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: ghSource})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize updater: %v", err), 1)
	}

	rep.Debug("checking for latest version...")
	latest, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error detecting latest version: %v", err), 1)
	}
	if !found {
		rep.Info("Current version %s is already the latest.", current)
		return nil
	}
	rep.Debug("latest version detected: %s (%s)", latest.Version(), latest.URL)

	if !latest.GreaterThan(currentSemVer.String()) {
		rep.Info("Current version %s is already the latest or newer.", current)
		return nil
	}
	rep.Info("New version available: %s (current: %s)", latest.Version(), current)

	if c.Bool("check") {
		return nil
	}
	if !c.Bool("yes") && !prompt.NewTerminal(in, out).Confirm("Do you want to update?") {
		rep.Info("Update cancelled.")
		return nil
	}

	rep.Step("Updating to %s...", latest.Version())
	execPath, err := os.Executable()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not get executable path: %v", err), 1)
	}
	rep.Debug("current executable path: %s", execPath)

	if err := updater.UpdateTo(c.Context, latest, execPath); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update: %v", err), 1)
	}
	rep.Success("Successfully updated to version %s.", latest.Version())
	return nil
}
