package state

import (
	"context"
)

const keySelectedList = "selected_list_id"

// SelectionStore persists the selected list id. The selection survives
// session refresh as long as the id still exists in the latest fetch;
// validating that is the list service's job.
type SelectionStore struct {
	kv *KV
}

// NewSelectionStore creates a SelectionStore over the given KV.
func NewSelectionStore(kv *KV) *SelectionStore {
	return &SelectionStore{kv: kv}
}

// Get returns the persisted list id, or false when none is set.
func (s *SelectionStore) Get(ctx context.Context) (string, bool, error) {
	return s.kv.Get(ctx, keySelectedList)
}

// Set persists the given list id.
func (s *SelectionStore) Set(ctx context.Context, listID string) error {
	return s.kv.Set(ctx, keySelectedList, listID)
}

// Clear removes the persisted selection.
func (s *SelectionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, keySelectedList)
}
