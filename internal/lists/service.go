// Package lists caches the remote list set for the active session and
// tracks the selected list new scans are added to by default.
package lists

import (
	"context"
	"log/slog"
	"sync"

	"github.com/user/skyscan/internal/session"
	"github.com/user/skyscan/internal/skylight"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

// Service synchronizes lists with the remote service. The cached set is
// always replaced wholesale; the selection is persisted independently of
// the session so it survives a session refresh.
type Service struct {
	sessions  *session.Manager
	client    *skylight.Client
	selection *state.SelectionStore

	mu       sync.RWMutex
	cached   []types.ListSummary
	selected *types.ListSummary
}

// NewService creates a Service wired to the session manager, remote
// client, and selection store.
func NewService(sessions *session.Manager, client *skylight.Client, selection *state.SelectionStore) *Service {
	return &Service{
		sessions:  sessions,
		client:    client,
		selection: selection,
	}
}

func (s *Service) session() (*types.Session, skylight.Credentials, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, skylight.Credentials{}, &types.AuthError{Reason: "not authenticated"}
	}
	creds, _ := s.sessions.Credentials()
	return sess, creds, nil
}

// Fetch replaces the cached set with a fresh fetch. A selection whose id
// is absent from the new set becomes empty.
func (s *Service) Fetch(ctx context.Context) ([]types.ListSummary, error) {
	sess, creds, err := s.session()
	if err != nil {
		return nil, err
	}

	fetched, err := s.client.Lists(ctx, creds, sess.FrameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.apply(fetched)
	s.mu.Unlock()
	return fetched, nil
}

// apply installs a fetched set and drops a selection that no longer
// resolves. Callers hold s.mu.
func (s *Service) apply(fetched []types.ListSummary) {
	s.cached = fetched
	if s.selected == nil {
		return
	}
	for i := range fetched {
		if fetched[i].ID == s.selected.ID {
			s.selected = &fetched[i]
			return
		}
	}
	s.selected = nil
}

// Refresh re-fetches the list set. A fetch failure is reported to the
// log and leaves the previous cached set and selection untouched.
func (s *Service) Refresh(ctx context.Context) error {
	sess, creds, err := s.session()
	if err != nil {
		return err
	}

	fetched, err := s.client.Lists(ctx, creds, sess.FrameID)
	if err != nil {
		slog.Warn("list refresh failed", "error", err)
		return nil
	}

	s.mu.Lock()
	s.apply(fetched)
	s.mu.Unlock()
	return nil
}

// Select sets the selected list and persists its id. It does not
// validate membership in the latest fetch; that is the caller's job.
func (s *Service) Select(ctx context.Context, list types.ListSummary) error {
	if _, _, err := s.session(); err != nil {
		return err
	}
	if err := s.selection.Set(ctx, list.ID); err != nil {
		return err
	}
	s.mu.Lock()
	s.selected = &list
	s.mu.Unlock()
	return nil
}

// RestoreSelection re-binds the persisted list id against the cached
// set. A persisted id that no longer resolves leaves the selection
// empty.
func (s *Service) RestoreSelection(ctx context.Context) error {
	listID, found, err := s.selection.Get(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cached {
		if s.cached[i].ID == listID {
			s.selected = &s.cached[i]
			return nil
		}
	}
	return nil
}

// EnsureDefaultSelection selects the first shopping list (or the first
// list of any kind) when nothing is selected yet.
func (s *Service) EnsureDefaultSelection(ctx context.Context) error {
	s.mu.RLock()
	selected := s.selected
	cached := s.cached
	s.mu.RUnlock()

	if selected != nil || len(cached) == 0 {
		return nil
	}

	choice := cached[0]
	for _, list := range cached {
		if list.Kind == types.ListKindShopping {
			choice = list
			break
		}
	}
	return s.Select(ctx, choice)
}

// Items fetches the current item set for one list. Used as a pre-check
// before adding; never cached.
func (s *Service) Items(ctx context.Context, listID string) ([]types.ListItem, error) {
	sess, creds, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.client.ListItems(ctx, creds, sess.FrameID, listID)
}

// AddItem submits a new item to the given list, or to the selected list
// when listID is empty. The service performs no duplicate detection;
// the scan flow owns that.
func (s *Service) AddItem(ctx context.Context, label, listID string) error {
	sess, creds, err := s.session()
	if err != nil {
		return err
	}

	target := listID
	if target == "" {
		if selected, ok := s.Selected(); ok {
			target = selected.ID
		}
	}
	if target == "" {
		return &types.AuthError{Reason: "no list selected"}
	}

	_, err = s.client.AddListItem(ctx, creds, sess.FrameID, target, label)
	return err
}

// Selected returns the selected list, or false when none is set.
func (s *Service) Selected() (*types.ListSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil, false
	}
	list := *s.selected
	return &list, true
}

// Lists returns the cached set from the last successful fetch.
func (s *Service) Lists() []types.ListSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ListSummary, len(s.cached))
	copy(out, s.cached)
	return out
}

// ListByID resolves a cached list by id.
func (s *Service) ListByID(listID string) (*types.ListSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.cached {
		if s.cached[i].ID == listID {
			list := s.cached[i]
			return &list, true
		}
	}
	return nil, false
}
