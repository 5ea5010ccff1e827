// Package status implements the status command.
package status

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/hasher"
	"github.com/nightconcept/pages-deploy/internal/core/record"
)

// Artifact states reported next to the recorded hash.
const (
	artifactCurrent = "current"
	artifactChanged = "changed since deploy"
	artifactMissing = "missing"
)

// NewStatusCommand returns the status command, which shows the last
// recorded deployment and whether the build output still matches it.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"st"},
		Usage:   "Displays the last deployment and its artifact state",
		Action: func(c *cli.Context) error {
			ws, err := workspace.Load(c)
			if err != nil {
				return err
			}

			rec, err := record.Load(ws.Dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error loading %s: %v", record.FileName, err), 1)
			}

			projectNameColor := color.New(color.FgMagenta, color.Bold, color.Underline).SprintFunc()
			projectPathColor := color.New(color.FgHiBlack, color.Bold, color.Underline).SprintFunc()
			headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
			keyColor := color.New(color.FgWhite).SprintFunc()
			hashColor := color.New(color.FgYellow).SprintFunc()
			dimColor := color.New(color.FgHiBlack).SprintFunc()

			out := ws.Report
			out.Plain("%s %s", projectNameColor(ws.Settings.Slug), projectPathColor(ws.Dir))
			out.Plain("")
			out.Plain("%s", headerColor("deployment:"))

			d := rec.Deployment
			if d == nil {
				out.Plain("No deployment recorded in %s.", record.FileName)
				return nil
			}

			published := d.PublishedAt
			if at, err := d.PublishedTime(); err == nil {
				published = at.Local().Format("2006-01-02 15:04:05 MST")
			}

			out.Plain("%s %s", keyColor("url"), d.URL)
			out.Plain("%s %s", keyColor("identity"), d.Identity)
			out.Plain("%s %s", keyColor("method"), d.Method)
			out.Plain("%s %s", keyColor("published"), dimColor(published))
			out.Plain("%s %s %s (%s)", keyColor("artifact"), hashColor(d.Hash), dimColor(d.Artifact), artifactState(ws.Dir, d))
			return nil
		},
	}
}

func artifactState(dir string, d *record.Deployment) string {
	hash, err := hasher.HashFile(filepath.Join(dir, filepath.FromSlash(d.Artifact)))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return artifactMissing
	case err != nil:
		return fmt.Sprintf("error checking file: %v", err)
	case hash != d.Hash:
		return artifactChanged
	default:
		return artifactCurrent
	}
}
