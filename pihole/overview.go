package pihole

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Overview bundles the pieces of a status dashboard fetched in one go.
type Overview struct {
	Summary  *StatsSummary
	Blocking *BlockingStatus
	Version  *VersionInfo
}

// Overview fetches summary statistics, blocking state and version info
// concurrently. The first call still authenticates only once; concurrent
// callers share the cached session token.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := c.Summary(ctx)
		if err != nil {
			return err
		}
		overview.Summary = summary
		return nil
	})

	g.Go(func() error {
		blocking, err := c.Blocking(ctx)
		if err != nil {
			return err
		}
		overview.Blocking = blocking
		return nil
	})

	g.Go(func() error {
		version, err := c.Version(ctx)
		if err != nil {
			return err
		}
		overview.Version = version
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}
