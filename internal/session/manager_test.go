package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/skyscan/internal/skylight"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *state.SessionStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	kv, err := state.OpenKV(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })

	store := state.NewSessionStore(kv)
	return NewManager(skylight.New(server.URL), store), store
}

// loginHandler answers the session and frame endpoints for a successful
// login with frame f-1.
func loginHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions":
			w.Write([]byte(`{"data":{"id":"u-1","attributes":{"email":"a@example.com","token":"tok-1"}}}`))
		case "/api/frames":
			w.Write([]byte(`{"data":[{"id":"f-1","type":"frame"}]}`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})
}

func TestLoginPublishesAndPersists(t *testing.T) {
	mgr, store := newTestManager(t, loginHandler(t))

	sess, err := mgr.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if sess.FrameID != "f-1" || sess.UserID != "u-1" || sess.Token != "tok-1" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if mgr.Status() != StatusAuthenticated {
		t.Errorf("expected authenticated status, got %s", mgr.Status())
	}

	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if persisted == nil || persisted.FrameID != "f-1" {
		t.Errorf("session not persisted: %+v", persisted)
	}
}

func TestLoginFrameDiscoveryFailure(t *testing.T) {
	mgr, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sessions" {
			w.Write([]byte(`{"data":{"id":"u-1","attributes":{"email":"a@example.com","token":"tok-1"}}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := mgr.Login(context.Background(), "a@example.com", "pw")
	var authErr *types.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}

	if _, ok := mgr.Current(); ok {
		t.Error("session published despite discovery failure")
	}
	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if persisted != nil {
		t.Error("session persisted despite discovery failure")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	mgr, store := newTestManager(t, loginHandler(t))
	err := store.Save(context.Background(), &types.Session{
		Token: "tok-1", UserID: "u-1", FrameID: "f-1", Email: "a@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Restore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil || sess.FrameID != "f-1" {
		t.Fatalf("unexpected restored session: %+v", sess)
	}
	if mgr.Status() != StatusAuthenticated {
		t.Errorf("expected authenticated status, got %s", mgr.Status())
	}
}

func TestRestoreEmptyStore(t *testing.T) {
	mgr, _ := newTestManager(t, loginHandler(t))

	sess, err := mgr.Restore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("expected no session, got %+v", sess)
	}
	if mgr.Status() != StatusUnauthenticated {
		t.Errorf("expected unauthenticated status, got %s", mgr.Status())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	mgr, store := newTestManager(t, loginHandler(t))
	if _, err := mgr.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := mgr.Current(); ok {
		t.Error("session still current after logout")
	}
	if mgr.Status() != StatusUnauthenticated {
		t.Errorf("expected unauthenticated status, got %s", mgr.Status())
	}
	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if persisted != nil {
		t.Error("session still persisted after logout")
	}

	// second logout is a no-op
	if err := mgr.Logout(context.Background()); err != nil {
		t.Errorf("repeated logout failed: %v", err)
	}
}

func TestCredentialsDeriveFromSession(t *testing.T) {
	mgr, _ := newTestManager(t, loginHandler(t))
	if _, err := mgr.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatal(err)
	}

	creds, ok := mgr.Credentials()
	if !ok {
		t.Fatal("expected credentials")
	}
	if creds.UserID != "u-1" || creds.Token != "tok-1" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}
