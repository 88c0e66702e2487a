package client

import (
	"context"
	"errors"
	"sync"

	"bossa/models"
	"bossa/querystate"
)

// ErrStale means a newer fetch started before this one finished; the
// response belongs to a descriptor the view has already abandoned.
var ErrStale = errors.New("list response superseded by a newer request")

// ListSession serializes the fetches of one list view. Rapid filter or
// page changes can make responses arrive out of order; the session
// numbers each fetch and drops any result that is no longer the latest,
// so the view never renders data for an outdated descriptor. Create one
// session per list view.
type ListSession struct {
	client *Client

	mu  sync.Mutex
	seq uint64
}

func NewListSession(c *Client) *ListSession {
	return &ListSession{client: c}
}

// Projects fetches the project list for d. Returns ErrStale if another
// fetch started on this session before the response came back.
func (s *ListSession) Projects(ctx context.Context, d querystate.Descriptor) (*models.PaginatedProjects, error) {
	seq := s.begin()
	page, err := s.client.ListProjects(ctx, d)
	if !s.isCurrent(seq) {
		return nil, ErrStale
	}
	return page, err
}

// Tasks fetches the task list for d with the same staleness rule.
func (s *ListSession) Tasks(ctx context.Context, d querystate.Descriptor) (*models.PaginatedTasks, error) {
	seq := s.begin()
	page, err := s.client.ListTasks(ctx, d)
	if !s.isCurrent(seq) {
		return nil, ErrStale
	}
	return page, err
}

func (s *ListSession) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *ListSession) isCurrent(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}
