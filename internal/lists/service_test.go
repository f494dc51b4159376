package lists

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/user/skyscan/internal/session"
	"github.com/user/skyscan/internal/skylight"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

// fakeRemote is a minimal in-memory Skylight backend. Its list set can be
// swapped between calls, and lookups can be forced to fail.
type fakeRemote struct {
	mu    sync.Mutex
	lists []map[string]any
	fail  bool
	added []string
}

func (f *fakeRemote) setLists(lists ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = lists
}

func (f *fakeRemote) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeRemote) addedLabels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.added))
	copy(out, f.added)
	return out
}

func list(id, label, kind string) map[string]any {
	return map[string]any{
		"id":   id,
		"type": "list",
		"attributes": map[string]any{
			"label": label,
			"kind":  kind,
		},
	}
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch {
	case r.URL.Path == "/api/frames/f-1/lists" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"data": f.lists})
	case r.Method == http.MethodPost:
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		f.added = append(f.added, payload["label"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":         "i-new",
				"type":       "list_item",
				"attributes": map[string]any{"label": payload["label"], "status": "pending"},
			},
		})
	default:
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}, "included": []any{}})
	}
}

func newTestService(t *testing.T, remote *fakeRemote, authenticated bool) *Service {
	t.Helper()
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	kv, err := state.OpenKV(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })

	client := skylight.New(server.URL)
	mgr := session.NewManager(client, state.NewSessionStore(kv))
	if authenticated {
		store := state.NewSessionStore(kv)
		err := store.Save(context.Background(), &types.Session{
			Token: "tok", UserID: "u-1", FrameID: "f-1", Email: "a@example.com",
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mgr.Restore(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	return NewService(mgr, client, state.NewSelectionStore(kv))
}

func TestFetchRequiresSession(t *testing.T) {
	svc := newTestService(t, &fakeRemote{}, false)

	_, err := svc.Fetch(context.Background())
	var authErr *types.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestFetchReplacesWholesale(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Groceries", "shopping"), list("l-2", "Chores", "to_do"))
	svc := newTestService(t, remote, true)

	fetched, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(fetched))
	}

	remote.setLists(list("l-3", "Hardware", "shopping"))
	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	cached := svc.Lists()
	if len(cached) != 1 || cached[0].ID != "l-3" {
		t.Errorf("expected wholesale replacement, got %+v", cached)
	}
}

func TestRefreshDropsVanishedSelection(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Groceries", "shopping"), list("l-2", "Chores", "to_do"))
	svc := newTestService(t, remote, true)

	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Select(context.Background(), svc.Lists()[0]); err != nil {
		t.Fatal(err)
	}

	remote.setLists(list("l-2", "Chores", "to_do"))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Selected(); ok {
		t.Error("selection survived although its list vanished")
	}
}

func TestRefreshFailureLeavesStateUntouched(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Groceries", "shopping"))
	svc := newTestService(t, remote, true)

	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Select(context.Background(), svc.Lists()[0]); err != nil {
		t.Fatal(err)
	}

	remote.setFail(true)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failure must not propagate, got %v", err)
	}

	if len(svc.Lists()) != 1 {
		t.Errorf("cached set changed on failed refresh: %+v", svc.Lists())
	}
	if selected, ok := svc.Selected(); !ok || selected.ID != "l-1" {
		t.Errorf("selection changed on failed refresh: %+v", selected)
	}
}

func TestRestoreSelection(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Groceries", "shopping"), list("l-2", "Chores", "to_do"))
	svc := newTestService(t, remote, true)

	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Select(context.Background(), svc.Lists()[1]); err != nil {
		t.Fatal(err)
	}

	// simulate a fresh process: same KV, new in-memory state
	svc.mu.Lock()
	svc.selected = nil
	svc.mu.Unlock()

	if err := svc.RestoreSelection(context.Background()); err != nil {
		t.Fatal(err)
	}
	selected, ok := svc.Selected()
	if !ok || selected.ID != "l-2" {
		t.Errorf("expected l-2 restored, got %+v (ok=%v)", selected, ok)
	}
}

func TestEnsureDefaultSelectionPrefersShopping(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Chores", "to_do"), list("l-2", "Groceries", "shopping"))
	svc := newTestService(t, remote, true)

	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.EnsureDefaultSelection(context.Background()); err != nil {
		t.Fatal(err)
	}
	selected, ok := svc.Selected()
	if !ok || selected.Kind != types.ListKindShopping {
		t.Errorf("expected shopping list selected, got %+v (ok=%v)", selected, ok)
	}
}

func TestAddItemTargets(t *testing.T) {
	remote := &fakeRemote{}
	remote.setLists(list("l-1", "Groceries", "shopping"))
	svc := newTestService(t, remote, true)

	if _, err := svc.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	// nothing selected, no explicit target
	err := svc.AddItem(context.Background(), "Milk", "")
	var authErr *types.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError with no target, got %v", err)
	}

	if err := svc.Select(context.Background(), svc.Lists()[0]); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem(context.Background(), "Milk", ""); err != nil {
		t.Fatal(err)
	}
	if got := remote.addedLabels(); len(got) != 1 || got[0] != "Milk" {
		t.Errorf("unexpected submitted labels: %v", got)
	}
}
