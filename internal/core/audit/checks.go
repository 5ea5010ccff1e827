package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/project"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// BundlerConfigNames are the file names accepted as an existing bundler config.
var BundlerConfigNames = []string{"vite.config.ts", "vite.config.js"}

const bundlerConfigTemplate = `import { defineConfig } from 'vite'
import react from '@vitejs/plugin-react'

export default defineConfig({
  plugins: [react()],
  base: '%s',
  build: {
    outDir: '%s',
  },
})
`

// Env is what the default checks need to inspect and repair a project.
type Env struct {
	Dir      string
	Settings *config.Settings
	Runner   runner.Runner
	Identity func(ctx context.Context) string
}

// DefaultChecks returns the standard checks in evaluation order.
func DefaultChecks(env Env) []Check {
	s := env.Settings
	return []Check{
		{
			Name:   project.ManifestName,
			Passes: project.Exists,
		},
		{
			Name:   "bundler config",
			Passes: HasBundlerConfig,
			Fix: func(ctx context.Context) error {
				return WriteBundlerConfig(env.Dir, s)
			},
		},
		{
			Name: s.Commands.PublishHelper + " dependency",
			Passes: func(dir string) bool {
				m, err := project.Load(dir)
				return err == nil && m.HasDependency(s.Commands.PublishHelper)
			},
			Fix: func(ctx context.Context) error {
				if !project.Exists(env.Dir) {
					return fmt.Errorf("cannot install %s without %s", s.Commands.PublishHelper, project.ManifestName)
				}
				return run(ctx, env, s.Commands.PackageManager, "install", "--save-dev", s.Commands.PublishHelper)
			},
		},
		{
			Name: project.ManifestName + " scripts",
			Passes: func(dir string) bool {
				m, err := project.Load(dir)
				return err == nil && m.HasScripts(s.Commands.PrepublishScript, s.Commands.PublishScript)
			},
			Fix: func(ctx context.Context) error {
				return ConfigureScripts(env.Dir, s, env.Identity(ctx))
			},
		},
		{
			Name: "git repository",
			Passes: func(dir string) bool {
				_, err := os.Stat(filepath.Join(dir, ".git"))
				return err == nil
			},
			Fix: func(ctx context.Context) error {
				steps := [][]string{
					{"init"},
					{"add", "."},
					{"commit", "-m", s.CommitMessage},
				}
				for _, args := range steps {
					if err := run(ctx, env, "git", args...); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func run(ctx context.Context, env Env, name string, args ...string) error {
	cmd := runner.Command{Name: name, Args: args, Dir: env.Dir}
	res := env.Runner.Run(ctx, cmd)
	if !res.OK() {
		return fmt.Errorf("%s failed: %s", cmd, res.Message())
	}
	return nil
}

// HasBundlerConfig reports whether dir holds any accepted bundler config file.
func HasBundlerConfig(dir string) bool {
	for _, name := range BundlerConfigNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// WriteBundlerConfig creates a minimal vite.config.ts serving the site under
// the slug's base path. An existing file is never overwritten.
func WriteBundlerConfig(dir string, s *config.Settings) error {
	path := filepath.Join(dir, BundlerConfigNames[0])
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, bundlerConfigTemplate, s.BasePath(), filepath.ToSlash(s.OutDir)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ConfigureScripts declares the pre-publish and publish scripts and points
// homepage at the hosted URL for identity.
func ConfigureScripts(dir string, s *config.Settings, identity string) error {
	m, err := project.Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s not found in %s", project.ManifestName, dir)
	}
	if err != nil {
		return err
	}
	m.SetScript(s.Commands.PrepublishScript, s.PrepublishScriptBody())
	m.SetScript(s.Commands.PublishScript, s.PublishScriptBody())
	m.Homepage = s.HostedURL(identity)
	if err := m.Save(dir); err != nil {
		return fmt.Errorf("failed to write %s: %w", project.ManifestName, err)
	}
	return nil
}
