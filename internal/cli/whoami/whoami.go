// Package whoami implements the whoami command.
package whoami

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/report"
)

// NewWhoamiCommand returns the whoami command.
func NewWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the account and URL the site would be published under",
		Action: func(c *cli.Context) error {
			ws, err := workspace.Load(c)
			if err != nil {
				return err
			}
			id := ws.Deployer().Identity(c.Context)
			ws.Report.Plain("%s %s", report.Bold("Identity:"), id)
			ws.Report.Plain("%s %s", report.Bold("URL:"), report.Green(ws.Settings.HostedURL(id)))
			ws.Report.Plain("%s %s", report.Bold("Repository:"), ws.Settings.RepoURL(id))
			if id == ws.Settings.PlaceholderIdentity {
				ws.Report.Warning("No GitHub account found; set a remote or git user.name")
			}
			return nil
		},
	}
}
