package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/user/skyscan/internal/types"
)

const (
	keyHistory        = "scan_history"
	maxHistoryEntries = 100
)

// HistoryStore keeps the scan history in the general partition as a
// JSON sequence, most recent first. Invariants: at most one entry per
// barcode, at most maxHistoryEntries entries.
type HistoryStore struct {
	kv *KV
	mu sync.Mutex
}

// NewHistoryStore creates a HistoryStore over the given KV.
func NewHistoryStore(kv *KV) *HistoryStore {
	return &HistoryStore{kv: kv}
}

func (h *HistoryStore) load(ctx context.Context) ([]types.HistoryEntry, error) {
	raw, found, err := h.kv.Get(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var entries []types.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, &types.StorageError{Op: "unmarshal history", Err: err}
	}
	return entries, nil
}

func (h *HistoryStore) save(ctx context.Context, entries []types.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return &types.StorageError{Op: "marshal history", Err: err}
	}
	return h.kv.Set(ctx, keyHistory, string(data))
}

// Add removes any existing entry for the same barcode, prepends the new
// entry, and truncates to the cap by dropping the oldest entries.
func (h *HistoryStore) Add(ctx context.Context, entry types.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx)
	if err != nil {
		return err
	}

	updated := make([]types.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	for _, existing := range entries {
		if existing.Product.Barcode == entry.Product.Barcode {
			continue
		}
		updated = append(updated, existing)
	}
	if len(updated) > maxHistoryEntries {
		updated = updated[:maxHistoryEntries]
	}

	return h.save(ctx, updated)
}

// MarkAdded records the destination list label on the entry for the
// barcode. A missing entry is not an error.
func (h *HistoryStore) MarkAdded(ctx context.Context, barcode, listLabel string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Product.Barcode == barcode {
			entries[i].AddedToList = listLabel
			return h.save(ctx, entries)
		}
	}
	return nil
}

// All returns the history, most recent first.
func (h *HistoryStore) All(ctx context.Context) ([]types.HistoryEntry, error) {
	return h.load(ctx)
}

// Clear erases the history.
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kv.Delete(ctx, keyHistory)
}
