// Package build installs dependencies, runs the project build and verifies its output.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightconcept/pages-deploy/internal/core/config"
	"github.com/nightconcept/pages-deploy/internal/core/hasher"
	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// Stage identifies which part of the build failed.
type Stage string

const (
	StageInstall Stage = "install"
	StageBuild   Stage = "build"
	StageVerify  Stage = "verify"
)

// Error describes a failed build stage. Output holds whatever the failing
// command wrote so it can be shown to the operator.
type Error struct {
	Stage  Stage
	Output string
	Err    error
}

func (e *Error) Error() string {
	switch e.Stage {
	case StageInstall:
		return "dependency installation failed"
	case StageVerify:
		return fmt.Sprintf("build output missing: %v", e.Err)
	default:
		return "build failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Artifact is the verified build entry file.
type Artifact struct {
	Path string // Relative to the project root.
	Hash string
}

// Builder runs the install and build scripts with the package manager.
type Builder struct {
	Runner   runner.Runner
	Dir      string
	Settings *config.Settings
}

// Install runs the package manager's install command.
func (b *Builder) Install(ctx context.Context) error {
	res := b.Runner.Run(ctx, runner.Command{
		Name: b.Settings.Commands.PackageManager,
		Args: []string{"install"},
		Dir:  b.Dir,
	})
	if !res.OK() {
		return &Error{Stage: StageInstall, Output: res.Message(), Err: res.Err}
	}
	return nil
}

// Build runs the build script.
func (b *Builder) Build(ctx context.Context) error {
	res := b.Runner.Run(ctx, runner.Command{
		Name: b.Settings.Commands.PackageManager,
		Args: []string{"run", b.Settings.Commands.BuildScript},
		Dir:  b.Dir,
	})
	if !res.OK() {
		return &Error{Stage: StageBuild, Output: res.Message(), Err: res.Err}
	}
	return nil
}

// Verify confirms the entry file exists. A build tool that exits zero
// without producing it still counts as a failed build.
func (b *Builder) Verify() (*Artifact, error) {
	rel := b.Settings.ArtifactPath()
	abs := filepath.Join(b.Dir, rel)

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%s does not exist", filepath.ToSlash(rel))
		}
		return nil, &Error{Stage: StageVerify, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Stage: StageVerify, Err: fmt.Errorf("%s is a directory", filepath.ToSlash(rel))}
	}

	hash, err := hasher.HashFile(abs)
	if err != nil {
		return nil, &Error{Stage: StageVerify, Err: err}
	}
	return &Artifact{Path: filepath.ToSlash(rel), Hash: hash}, nil
}
