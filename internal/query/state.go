// Package query holds the pagination, sort, search and status-filter
// parameters that drive task listings. It is pure state: translating a
// snapshot into a request is the gateway's job.
package query

import (
	"sync"

	"github.com/marcuslira2/task-manager-front/internal/models"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query is an immutable snapshot of the listing parameters.
type Query struct {
	Page      int
	Size      int
	SortField string
	SortDir   Direction
	Search    string
	Status    *models.Status
}

// SortSpec renders the combined sort specifier the backend expects, or
// "" when no sort is set.
func (q Query) SortSpec() string {
	if q.SortField == "" {
		return ""
	}
	return q.SortField + "," + string(q.SortDir)
}

const DefaultPageSize = 10

// State is the mutable query the UI events act on. A change to the
// effective search text or status filter rewinds to page zero so a new
// filter always starts from the first page; sort changes never touch the
// page.
type State struct {
	mu sync.Mutex
	q  Query
}

func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State{q: Query{Page: 0, Size: pageSize}}
}

func (s *State) SetPage(page, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page >= 0 {
		s.q.Page = page
	}
	if size > 0 {
		s.q.Size = size
	}
}

func (s *State) SetSort(field string, dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.SortField = field
	s.q.SortDir = dir
}

func (s *State) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.q.Search == text {
		return
	}
	s.q.Search = text
	s.q.Page = 0
}

func (s *State) SetStatusFilter(status *models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if equalStatus(s.q.Status, status) {
		return
	}
	s.q.Status = cloneStatus(status)
	s.q.Page = 0
}

// Snapshot returns a copy safe to hand to a gateway while the state keeps
// mutating.
func (s *State) Snapshot() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.q
	q.Status = cloneStatus(s.q.Status)
	return q
}

// Reset returns the state to its initial defaults, keeping the page size.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q = Query{Page: 0, Size: s.q.Size}
}

func equalStatus(a, b *models.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneStatus(s *models.Status) *models.Status {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
