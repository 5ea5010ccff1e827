// Package workspace assembles the pieces every command needs from the
// global flags: project directory, settings, reporter, runner and prompts.
package workspace

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/pipeline"
	"github.com/nightconcept/pages-deploy/internal/core/prompt"
	"github.com/nightconcept/pages-deploy/internal/core/publish"
	"github.com/nightconcept/pages-deploy/internal/core/report"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// Flag names shared by the app and its commands.
const (
	FlagDir     = "dir"
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

// Flags returns the global flags understood by Load.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagDir,
			Aliases: []string{"C"},
			Usage:   "Project directory to deploy",
			Value:   ".",
			EnvVars: []string{"PAGESDEPLOY_DIR"},
		},
		&cli.StringFlag{
			Name:    FlagConfig,
			Usage:   "Path to a settings file (default: <dir>/" + config.SettingsFileName + ")",
			EnvVars: []string{"PAGESDEPLOY_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Aliases: []string{"v"},
			Usage:   "Enable verbose output",
		},
	}
}

// NewRunner builds the command runner. Tests replace it with a fake.
var NewRunner = func(stdout, stderr io.Writer) runner.Runner {
	return runner.NewExec(stdout, stderr)
}

// Workspace is the resolved environment for one command invocation.
type Workspace struct {
	Dir      string
	Settings *config.Settings
	Report   *report.Reporter
	Runner   runner.Runner
	Confirm  prompt.Confirmer
}

// Load resolves the global flags. Errors are returned ready for cli.Exit.
func Load(c *cli.Context) (*Workspace, error) {
	dir := c.String(FlagDir)
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, cli.Exit("Error resolving project directory "+dir+": "+err.Error(), 1)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, cli.Exit("Error: project directory "+abs+" does not exist", 1)
	}

	var settings *config.Settings
	if path := c.String(FlagConfig); path != "" {
		settings, err = config.Load(path)
	} else {
		settings, err = config.LoadDir(abs)
	}
	if err != nil {
		return nil, cli.Exit("Error loading settings: "+err.Error(), 1)
	}

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	errOut := c.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}

	rep := report.New(out, c.Bool(FlagVerbose))
	run := runner.Announce(NewRunner(out, errOut), func(cmd runner.Command) {
		rep.Step("Running: %s", cmd)
	})

	return &Workspace{
		Dir:      abs,
		Settings: settings,
		Report:   rep,
		Runner:   run,
		Confirm:  prompt.NewTerminal(in, out),
	}, nil
}

// Deployer returns a pipeline wired to this workspace.
func (w *Workspace) Deployer() *pipeline.Deployer {
	return &pipeline.Deployer{
		Dir:      w.Dir,
		Settings: w.Settings,
		Runner:   w.Runner,
		Confirm:  w.Confirm,
		Report:   w.Report,
		Opener:   publish.SystemOpener{Runner: w.Runner},
		Now:      time.Now,
	}
}
