// Package check implements the check command.
package check

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
)

// NewCheckCommand returns the check command, which probes tools and audits
// the project configuration without building or publishing.
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify required tools and repair project configuration",
		Action: func(c *cli.Context) error {
			ws, err := workspace.Load(c)
			if err != nil {
				return err
			}
			if err := ws.Deployer().Audit(c.Context); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			ws.Report.Success("Project is ready to deploy")
			return nil
		},
	}
}
