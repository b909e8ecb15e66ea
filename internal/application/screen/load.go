package screen

import (
	"context"

	"github.com/nbfc/backoffice/internal/domain/master"
	"golang.org/x/sync/errgroup"
)

// LoadAll loads several screens concurrently, as a page does on mount
// (salesmen with branches, for example). Every load runs to completion;
// the first error is returned.
func LoadAll(ctx context.Context, screens ...*Screen) error {
	var g errgroup.Group
	for _, s := range screens {
		g.Go(func() error {
			return s.Load(ctx)
		})
	}
	return g.Wait()
}

// BranchName resolves a branch id to its display name, falling back to
// the id when no branch matches.
func BranchName(branches []master.Record, id string) string {
	for _, b := range branches {
		if b.GetID() == id {
			if name := b.String("branchName"); name != "" {
				return name
			}
			break
		}
	}
	return id
}
