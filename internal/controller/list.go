// Package controller orchestrates the query state and the task gateway
// into the projections a view renders.
package controller

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/models"
	"github.com/marcuslira2/task-manager-front/internal/query"
)

// Lister is the slice of the task gateway the list controller needs.
type Lister interface {
	List(ctx context.Context, q query.Query) (models.PagedResult[models.Task], error)
	ListByStatus(ctx context.Context, status models.Status, page, size int) (models.PagedResult[models.Task], error)
}

// ListController owns the currently displayed page of tasks and the
// total count. Every fetch carries a sequence number; a response that is
// no longer the latest issued is discarded, so overlapping refreshes can
// never roll the display back to stale data.
type ListController struct {
	state    *query.State
	lister   Lister
	log      *zap.SugaredLogger
	debounce *query.Debouncer

	seq atomic.Uint64

	mu      sync.Mutex
	tasks   []models.Task
	total   int64
	loading bool
}

func NewListController(state *query.State, lister Lister, debounceInterval time.Duration, log *zap.SugaredLogger) *ListController {
	c := &ListController{state: state, lister: lister, log: log}
	c.debounce = query.NewDebouncer(debounceInterval, func(text string) {
		if err := c.OnSearchChange(context.Background(), text); err != nil {
			log.Debugw("debounced search refresh failed", "err", err)
		}
	})
	return c
}

// Refresh fetches the page described by the current query and atomically
// replaces the projection on success. On failure the previous page stays
// displayed; the gateway has already notified the user.
func (c *ListController) Refresh(ctx context.Context) error {
	snap := c.state.Snapshot()
	n := c.seq.Add(1)
	c.setLoading(true)

	page, err := c.lister.List(ctx, snap)
	if err != nil {
		c.setLoading(false)
		if terminal(err) {
			return err
		}
		c.log.Errorw("failed to load tasks", "err", err)
		return err
	}

	c.apply(n, page)
	return nil
}

// OnPageChange moves to another page (and possibly page size) and
// re-fetches.
func (c *ListController) OnPageChange(ctx context.Context, page, size int) error {
	c.state.SetPage(page, size)
	return c.Refresh(ctx)
}

// OnSortChange changes the server-side ordering and re-fetches; the
// current page is kept.
func (c *ListController) OnSortChange(ctx context.Context, field string, dir query.Direction) error {
	c.state.SetSort(field, dir)
	return c.Refresh(ctx)
}

// OnSearchInput feeds the debouncer; the fetch happens once typing goes
// quiet and only when the settled text differs from the last dispatched.
func (c *ListController) OnSearchInput(text string) {
	c.debounce.Input(text)
}

// OnSearchChange applies a search term immediately.
func (c *ListController) OnSearchChange(ctx context.Context, text string) error {
	c.state.SetSearch(text)
	return c.Refresh(ctx)
}

// OnStatusChange applies a status filter. A nil status clears the filter.
// A failing filtered fetch falls back to the unfiltered listing: the
// filter is a convenience, not a guarantee, and must never blank the
// screen. Authorization failures stay terminal.
func (c *ListController) OnStatusChange(ctx context.Context, status *models.Status) error {
	c.state.SetStatusFilter(status)
	if status == nil {
		return c.Refresh(ctx)
	}

	snap := c.state.Snapshot()
	n := c.seq.Add(1)
	c.setLoading(true)

	page, err := c.lister.ListByStatus(ctx, *status, snap.Page, snap.Size)
	if err != nil {
		c.setLoading(false)
		if terminal(err) {
			return err
		}
		c.log.Warnw("status filter failed, falling back to unfiltered listing", "status", *status, "err", err)
		return c.Refresh(ctx)
	}

	c.apply(n, page)
	return nil
}

// Close stops the debouncer.
func (c *ListController) Close() {
	c.debounce.Stop()
}

// Tasks returns a copy of the currently displayed page.
func (c *ListController) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Total returns the element count across all pages.
func (c *ListController) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Loading reports whether a fetch is in flight; the view gates duplicate
// submissions and shows its indicator on this.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *ListController) apply(n uint64, page models.PagedResult[models.Task]) {
	if n != c.seq.Load() {
		c.log.Debugw("discarding stale list response", "seq", n, "latest", c.seq.Load())
		return
	}

	// Presentation nicety on top of the server ordering: the displayed
	// page is additionally sorted by deadline ascending. Display-only;
	// the canonical query is untouched.
	content := make([]models.Task, len(page.Content))
	copy(content, page.Content)
	sort.SliceStable(content, func(i, j int) bool {
		return content[i].DeadLine.Before(content[j].DeadLine)
	})

	c.mu.Lock()
	c.tasks = content
	c.total = page.TotalElements
	c.loading = false
	c.mu.Unlock()
}

func (c *ListController) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// terminal reports whether the error forces logout-and-redirect instead
// of being recoverable in place.
func terminal(err error) bool {
	return errors.Is(err, apierr.ErrSessionExpired) || errors.Is(err, apierr.ErrMissingCredential)
}
