package runner

import (
	"context"
	"sync"
)

// Fake is a scripted Runner for tests. Commands are matched on their
// String() form; unmatched commands succeed with empty output.
type Fake struct {
	mu sync.Mutex

	// Installed lists the executables LookPath reports as present.
	Installed map[string]bool
	// Results maps a command line to the result it should produce.
	Results map[string]Result
	// Effects run before the result is returned, e.g. to write build output.
	Effects map[string]func(Command)

	calls []Command
}

// NewFake returns a Fake with the given tools installed.
func NewFake(installed ...string) *Fake {
	f := &Fake{
		Installed: make(map[string]bool),
		Results:   make(map[string]Result),
		Effects:   make(map[string]func(Command)),
	}
	for _, name := range installed {
		f.Installed[name] = true
	}
	return f
}

// On scripts the result for a command line.
func (f *Fake) On(line string, res Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Results[line] = res
	return f
}

// Fail scripts a non-zero exit with the given stderr.
func (f *Fake) Fail(line, stderr string) *Fake {
	return f.On(line, Result{ExitCode: 1, Stderr: stderr})
}

// Do registers a side effect for a command line.
func (f *Fake) Do(line string, fn func(Command)) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Effects[line] = fn
	return f
}

func (f *Fake) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Installed[name]
}

func (f *Fake) Run(_ context.Context, c Command) Result {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	effect := f.Effects[c.String()]
	res, ok := f.Results[c.String()]
	f.mu.Unlock()

	if effect != nil {
		effect(c)
	}
	if !ok {
		return Result{}
	}
	return res
}

// Calls returns every command line run so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

// Ran reports whether the command line was run at least once.
func (f *Fake) Ran(line string) bool {
	for _, c := range f.Calls() {
		if c == line {
			return true
		}
	}
	return false
}
