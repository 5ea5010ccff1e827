// Package deploy implements the deploy command.
package deploy

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
	"github.com/nightconcept/pages-deploy/internal/core/pipeline"
)

// NewDeployCommand returns the deploy command.
func NewDeployCommand() *cli.Command {
	return &cli.Command{
		Name:   "deploy",
		Usage:  "Check, build and publish the site to GitHub Pages",
		Action: Action,
	}
}

// Action runs a full deployment. It is also the app's default action.
// Cancellation is not an error.
func Action(c *cli.Context) error {
	ws, err := workspace.Load(c)
	if err != nil {
		return err
	}

	outcome := ws.Deployer().Run(c.Context)
	if outcome.Status == pipeline.StatusFailed {
		return cli.Exit(fmt.Sprintf("Error: deployment failed: %v", outcome.Err), 1)
	}
	return nil
}
