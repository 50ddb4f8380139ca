package core

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"pip2sysdep/internal/types"
)

// documentCell memoizes the mapping document of one resolver. Concurrent
// first callers share a single load; a failed load is not remembered, so the
// next caller tries again.
type documentCell struct {
	mu    sync.RWMutex
	doc   *types.MappingDocument
	group singleflight.Group
}

func (c *documentCell) cached() *types.MappingDocument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}

// getOrLoad returns the cached document, or runs load once for every caller
// waiting on it. The load outlives a caller that gives up on ctx, since other
// callers may still be waiting on the same result.
func (c *documentCell) getOrLoad(ctx context.Context, load func(context.Context) (*types.MappingDocument, error)) (*types.MappingDocument, bool, error) {
	if doc := c.cached(); doc != nil {
		return doc, true, nil
	}
	results := c.group.DoChan("document", func() (any, error) {
		if doc := c.cached(); doc != nil {
			return doc, nil
		}
		doc, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, NotFoundError("source returned no document", nil)
		}
		c.mu.Lock()
		c.doc = doc
		c.mu.Unlock()
		return doc, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, false, result.Err
		}
		return result.Val.(*types.MappingDocument), false, nil
	}
}
