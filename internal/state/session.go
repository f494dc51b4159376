package state

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/user/skyscan/internal/types"
)

// Secure partition keys. Four independent keys; all-or-nothing semantics
// are enforced here, not by the KV.
const (
	keyAuthToken = "skylight_auth_token"
	keyUserID    = "skylight_user_id"
	keyFrameID   = "skylight_frame_id"
	keyUserEmail = "skylight_user_email"
)

// SessionStore persists the session credential fields in the secure
// partition.
type SessionStore struct {
	kv *KV
}

// NewSessionStore creates a SessionStore over the given KV.
func NewSessionStore(kv *KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save writes all four session fields in one transaction.
func (s *SessionStore) Save(ctx context.Context, sess *types.Session) error {
	return s.kv.SecureSetAll(ctx, map[string]string{
		keyAuthToken: sess.Token,
		keyUserID:    sess.UserID,
		keyFrameID:   sess.FrameID,
		keyUserEmail: sess.Email,
	})
}

// Load reads the four session fields concurrently. If any field is absent
// it returns (nil, nil): a partial session is treated as no session.
func (s *SessionStore) Load(ctx context.Context) (*types.Session, error) {
	var sess types.Session
	var ok [4]bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sess.Token, ok[0], err = s.kv.SecureGet(gctx, keyAuthToken)
		return err
	})
	g.Go(func() (err error) {
		sess.UserID, ok[1], err = s.kv.SecureGet(gctx, keyUserID)
		return err
	})
	g.Go(func() (err error) {
		sess.FrameID, ok[2], err = s.kv.SecureGet(gctx, keyFrameID)
		return err
	})
	g.Go(func() (err error) {
		sess.Email, ok[3], err = s.kv.SecureGet(gctx, keyUserEmail)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, found := range ok {
		if !found {
			return nil, nil
		}
	}
	return &sess, nil
}

// Clear removes all session fields. Idempotent.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.SecureDeleteAll(ctx, keyAuthToken, keyUserID, keyFrameID, keyUserEmail)
}
