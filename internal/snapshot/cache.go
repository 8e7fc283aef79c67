package snapshot

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sdvincy/coda-assistant/internal/log"
)

// Cache memoizes one built snapshot for the life of the process.
//
// Get has get-or-build semantics: a stored result returns immediately with
// no upstream traffic; otherwise one aggregation pass runs and its result is
// stored. Concurrent misses collapse into a single pass via singleflight.
// Refresh clears the stored result unconditionally and eagerly rebuilds,
// surfacing any rebuild failure instead of leaving a silently empty cache.
type Cache struct {
	builder *Builder
	logger  log.Logger

	mu      sync.Mutex
	current *Result

	group singleflight.Group
}

// NewCache creates a Cache building through builder.
func NewCache(builder *Builder, logger log.Logger) *Cache {
	return &Cache{builder: builder, logger: logger}
}

// Get returns the stored snapshot, building it first if needed.
func (c *Cache) Get(ctx context.Context, docID string) (*Result, error) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current != nil {
		return current, nil
	}

	v, err, shared := c.group.Do(docID, func() (any, error) {
		// A losing flight or a refresh may have stored a result while this
		// caller waited on the group.
		c.mu.Lock()
		current := c.current
		c.mu.Unlock()
		if current != nil {
			return current, nil
		}

		report, err := c.builder.Build(ctx, docID)
		if err != nil {
			return nil, err
		}

		result := &Result{
			Pages: report.Pages,
			Text:  Format(report.Pages),
		}

		c.mu.Lock()
		c.current = result
		c.mu.Unlock()

		tables, rows := Totals(result.Pages)
		skipped := len(report.Tables) - tables
		c.logger.Info("workspace snapshot built",
			"pages", len(result.Pages),
			"tables", tables,
			"rows", rows,
			"skipped_tables", skipped)

		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("snapshot build shared across concurrent requests")
	}

	return v.(*Result), nil
}

// Refresh clears the stored snapshot and rebuilds it. The error from a
// failed rebuild propagates to the caller.
func (c *Cache) Refresh(ctx context.Context, docID string) (*Result, error) {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()

	c.logger.Info("snapshot cache cleared, rebuilding")
	return c.Get(ctx, docID)
}
