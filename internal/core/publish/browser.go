package publish

import (
	"context"
	"fmt"
	"runtime"

	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// Opener shows a URL to the operator.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener launches the platform's default browser.
type SystemOpener struct {
	Runner runner.Runner
	GOOS   string // Defaults to runtime.GOOS.
}

// LauncherFor returns the command that opens url on goos.
func LauncherFor(goos, url string) runner.Command {
	switch goos {
	case "darwin":
		return runner.Command{Name: "open", Args: []string{url}, Quiet: true}
	case "windows":
		return runner.Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}, Quiet: true}
	default:
		return runner.Command{Name: "xdg-open", Args: []string{url}, Quiet: true}
	}
}

func (o SystemOpener) Open(ctx context.Context, url string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	cmd := LauncherFor(goos, url)
	if !o.Runner.LookPath(cmd.Name) {
		return fmt.Errorf("no browser launcher found (%s)", cmd.Name)
	}
	if res := o.Runner.Run(ctx, cmd); !res.OK() {
		return fmt.Errorf("%s failed: %s", cmd.Name, res.Message())
	}
	return nil
}
