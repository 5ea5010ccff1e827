// Package identity works out which account the site will be published under.
package identity

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/nightconcept/pages-deploy/internal/core/runner"
)

// OwnerFromRemote extracts the account handle from a remote URL such as
// https://github.com/octocat/site.git or git@github.com:octocat/site.git.
// The host match is case-sensitive. It returns "" when the URL does not
// point at host.
func OwnerFromRemote(remoteURL, host string) string {
	re, err := regexp.Compile(regexp.QuoteMeta(host) + `[/:]([^/]+)`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSpace(m[1]), ".git")
}

// Resolver derives the publishing identity from git configuration.
type Resolver struct {
	Runner      runner.Runner
	Dir         string
	Remote      string
	Host        string
	Placeholder string
}

func (r *Resolver) gitConfig(ctx context.Context, key string) string {
	res := r.Runner.Run(ctx, runner.Command{
		Name:  "git",
		Args:  []string{"config", "--get", key},
		Dir:   r.Dir,
		Quiet: true,
	})
	if !res.OK() {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// Resolve tries the remote URL, then user.name, then the placeholder.
// It never returns an empty string.
func (r *Resolver) Resolve(ctx context.Context) string {
	if url := r.gitConfig(ctx, "remote."+r.Remote+".url"); url != "" {
		if owner := OwnerFromRemote(url, r.Host); owner != "" {
			return owner
		}
	}
	if name := r.gitConfig(ctx, "user.name"); name != "" {
		return name
	}
	if r.Placeholder == "" {
		return "yourusername"
	}
	return r.Placeholder
}

// Lazy resolves the identity on first use and returns the same value afterwards.
type Lazy struct {
	resolver *Resolver
	once     sync.Once
	value    string
}

// NewLazy wraps r so it is consulted at most once.
func NewLazy(r *Resolver) *Lazy {
	return &Lazy{resolver: r}
}

func (l *Lazy) Get(ctx context.Context) string {
	l.once.Do(func() {
		l.value = l.resolver.Resolve(ctx)
	})
	return l.value
}
