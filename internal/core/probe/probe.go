// Package probe checks that the external tools a deployment needs are installed.
package probe

import (
	"fmt"

	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// MissingToolError names the first required tool that could not be found.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%s is not installed or not on PATH; install %s and try again", e.Tool, e.Tool)
}

// Probe checks each tool in order and stops at the first one missing.
// Tools are located, never executed.
func Probe(r runner.Runner, tools []string) error {
	for _, tool := range tools {
		if !r.LookPath(tool) {
			return &MissingToolError{Tool: tool}
		}
	}
	return nil
}

// Available reports whether an optional tool is installed.
func Available(r runner.Runner, tool string) bool {
	return tool != "" && r.LookPath(tool)
}
