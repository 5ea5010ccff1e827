package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/cli/check"
	"github.com/nightconcept/pages-deploy/internal/cli/deploy"
	"github.com/nightconcept/pages-deploy/internal/cli/self"
	"github.com/nightconcept/pages-deploy/internal/cli/status"
	"github.com/nightconcept/pages-deploy/internal/cli/whoami"
	"github.com/nightconcept/pages-deploy/internal/cli/workspace"
)

// version is overridden at release time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func newApp() *cli.App {
	return &cli.App{
		Name:    "pagesdeploy",
		Usage:   "One-command GitHub Pages deployment for Vite projects",
		Version: version,
		Flags:   workspace.Flags(),
		// With no command, deploy.
		Action: deploy.Action,
		Commands: []*cli.Command{
			deploy.NewDeployCommand(),
			check.NewCheckCommand(),
			whoami.NewWhoamiCommand(),
			status.NewStatusCommand(),
			self.NewSelfCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
