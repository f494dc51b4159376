package session

import (
	"context"
	"sync"

	"github.com/user/skyscan/internal/skylight"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

// Manager owns the process-wide session: it authenticates, discovers the
// account frame, and persists, restores, and clears the credential
// fields. A session is published only after both authentication and
// frame discovery succeed.
type Manager struct {
	client *skylight.Client
	store  *state.SessionStore

	mu      sync.RWMutex
	status  Status
	current *types.Session
}

// NewManager creates a Manager wired to the given client and store.
func NewManager(client *skylight.Client, store *state.SessionStore) *Manager {
	return &Manager{
		client: client,
		store:  store,
		status: StatusUninitialized,
	}
}

// Login authenticates, resolves the frame id, persists the session
// atomically, and publishes it. On any failure no session state is
// created or persisted.
func (m *Manager) Login(ctx context.Context, email, password string) (*types.Session, error) {
	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	creds := skylight.Credentials{UserID: result.UserID, Token: result.Token}
	frameID, found := m.client.DiscoverFrame(ctx, creds)
	if !found {
		return nil, &types.AuthError{Reason: "frame discovery failed"}
	}

	sess := &types.Session{
		Token:   result.Token,
		UserID:  result.UserID,
		FrameID: frameID,
		Email:   result.Email,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = sess
	m.status = next(m.status, eventLoginSucceeded)
	m.mu.Unlock()

	return sess, nil
}

// Restore loads a previously persisted session. It returns (nil, nil)
// when any of the four fields is missing. If a restored session later
// fails validation against the remote service, the caller invokes Logout.
func (m *Manager) Restore(ctx context.Context) (*types.Session, error) {
	m.mu.Lock()
	m.status = next(m.status, eventRestoreBegin)
	m.mu.Unlock()

	sess, err := m.store.Load(ctx)
	if err != nil {
		m.mu.Lock()
		m.status = next(m.status, eventRestoreMiss)
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess == nil {
		m.status = next(m.status, eventRestoreMiss)
		return nil, nil
	}
	m.current = sess
	m.status = next(m.status, eventRestoreHit)
	return sess, nil
}

// Logout clears the persisted fields and the in-memory session.
// Idempotent: logging out twice is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = nil
	m.status = next(m.status, eventLoggedOut)
	m.mu.Unlock()
	return nil
}

// Current returns the active session, or false when unauthenticated.
func (m *Manager) Current() (*types.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	return m.current, true
}

// Credentials returns the per-call authorization material for the active
// session.
func (m *Manager) Credentials() (skylight.Credentials, bool) {
	sess, ok := m.Current()
	if !ok {
		return skylight.Credentials{}, false
	}
	return skylight.Credentials{UserID: sess.UserID, Token: sess.Token}, true
}

// Status reports the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
