package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/user/skyscan/internal/types"
)

const keyOverrides = "product_overrides"

// OverrideStore keeps one ProductOverride per barcode in the general
// partition, stored as a single JSON mapping. Set is the only mutation
// path and merges a partial patch onto the existing record.
type OverrideStore struct {
	kv *KV
	mu sync.Mutex

	now func() time.Time
}

// NewOverrideStore creates an OverrideStore over the given KV.
func NewOverrideStore(kv *KV) *OverrideStore {
	return &OverrideStore{kv: kv, now: time.Now}
}

func (o *OverrideStore) load(ctx context.Context) (map[string]types.ProductOverride, error) {
	raw, found, err := o.kv.Get(ctx, keyOverrides)
	if err != nil {
		return nil, err
	}
	if !found {
		return make(map[string]types.ProductOverride), nil
	}

	overrides := make(map[string]types.ProductOverride)
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		return nil, &types.StorageError{Op: "unmarshal overrides", Err: err}
	}
	return overrides, nil
}

func (o *OverrideStore) save(ctx context.Context, overrides map[string]types.ProductOverride) error {
	data, err := json.Marshal(overrides)
	if err != nil {
		return &types.StorageError{Op: "marshal overrides", Err: err}
	}
	return o.kv.Set(ctx, keyOverrides, string(data))
}

// Get returns the override for the barcode, or nil when none exists.
func (o *OverrideStore) Get(ctx context.Context, barcode string) (*types.ProductOverride, error) {
	overrides, err := o.load(ctx)
	if err != nil {
		return nil, err
	}
	record, found := overrides[barcode]
	if !found {
		return nil, nil
	}
	return &record, nil
}

// Set merges the patch onto the existing record, creating one if absent.
// Nil patch fields leave the stored value unchanged; UpdatedAt always
// refreshes.
func (o *OverrideStore) Set(ctx context.Context, barcode string, patch types.OverridePatch) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	overrides, err := o.load(ctx)
	if err != nil {
		return err
	}

	record := overrides[barcode]
	record.Barcode = barcode
	if patch.Name != nil {
		record.Name = *patch.Name
	}
	if patch.Brand != nil {
		record.Brand = *patch.Brand
	}
	if patch.LastListID != nil {
		record.LastListID = *patch.LastListID
	}
	record.UpdatedAt = o.now()
	overrides[barcode] = record

	return o.save(ctx, overrides)
}

// Clear removes the override for the barcode entirely.
func (o *OverrideStore) Clear(ctx context.Context, barcode string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	overrides, err := o.load(ctx)
	if err != nil {
		return err
	}
	if _, found := overrides[barcode]; !found {
		return nil
	}
	delete(overrides, barcode)
	return o.save(ctx, overrides)
}
