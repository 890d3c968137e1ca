// Package githubfs adapts a branch of a GitHub repository through the
// contents API. Every write becomes its own commit on the branch, so the
// commit operation itself is declared unsupported while revision history
// remains fully readable.
package githubfs

import (
	"fmt"

	"github.com/google/go-github/v67/github"
)

// Config holds repository connection settings.
type Config struct {
	// Token authenticates API calls. Ignored when Client is provided.
	Token string

	// Owner is the repository owner (user or organization).
	Owner string

	// Repo is the repository name without the owner.
	Repo string

	// Branch is the branch served. Default: "main".
	Branch string

	// Client is an optional pre-configured client, e.g. one pointed at a
	// test server.
	Client *github.Client
}

// validate checks the configuration. Either Client or Token must be
// provided; Owner and Repo are always required.
func (c *Config) validate() error {
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if c.Client == nil && c.Token == "" {
		return fmt.Errorf("either token or client must be provided")
	}
	return nil
}
