// Package scan composes the product lookup, the override and history
// stores, and the list service into the barcode-to-list flow.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/skyscan/internal/lists"
	"github.com/user/skyscan/internal/lookup"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

// ErrDuplicateItem reports that the target list already carries an item
// with the same normalized label. At-most-one-item-per-label is enforced
// here by convention, not by the server.
var ErrDuplicateItem = errors.New("item already on list")

// Flow drives a scanned barcode from lookup through override merge to an
// idempotent list addition.
type Flow struct {
	lookup    *lookup.Client
	overrides *state.OverrideStore
	history   *state.HistoryStore
	lists     *lists.Service
	notifier  types.Notifier

	now func() time.Time
}

// NewFlow creates a Flow. notifier may be nil.
func NewFlow(lookupClient *lookup.Client, overrides *state.OverrideStore, history *state.HistoryStore, listService *lists.Service, notifier types.Notifier) *Flow {
	return &Flow{
		lookup:    lookupClient,
		overrides: overrides,
		history:   history,
		lists:     listService,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Result is a scanned product after override merge.
type Result struct {
	Product types.Product

	// Found is false when the lookup service had no product; Product
	// then carries only the barcode plus any override fields.
	Found bool

	// HasOverride reports that a local correction contributed fields.
	HasOverride bool

	// SuggestedListID restores the list this barcode was last added to.
	SuggestedListID string
}

// Scan looks the barcode up and reads the local override concurrently,
// merges them with override fields taking precedence, and records the
// merged snapshot in the history.
func (f *Flow) Scan(ctx context.Context, barcode string) (*Result, error) {
	var (
		product  *types.Product
		override *types.ProductOverride
		found    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := f.lookup.Lookup(gctx, barcode)
		if errors.Is(err, lookup.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		product = p
		found = true
		return nil
	})
	g.Go(func() error {
		o, err := f.overrides.Get(gctx, barcode)
		if err != nil {
			return err
		}
		override = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if product == nil {
		product = &types.Product{Barcode: barcode}
	}

	result := Result{Product: *product, Found: found}
	if override != nil {
		if override.Name != "" {
			result.Product.Name = override.Name
			result.HasOverride = true
		}
		if override.Brand != "" {
			result.Product.Brand = override.Brand
			result.HasOverride = true
		}
		result.SuggestedListID = override.LastListID
	}

	entry := types.HistoryEntry{
		ID:        types.NewHistoryEntryID(),
		Product:   result.Product,
		ScannedAt: f.now(),
	}
	if err := f.history.Add(ctx, entry); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddToList submits the product to the given list, or to the selected
// list when listID is empty. The built label is checked against the
// list's current items case-insensitively; a match returns
// ErrDuplicateItem without submitting. On success the destination is
// remembered in the override and marked on the history entry.
func (f *Flow) AddToList(ctx context.Context, product types.Product, listID string) (string, error) {
	target := listID
	if target == "" {
		if selected, ok := f.lists.Selected(); ok {
			target = selected.ID
		}
	}
	if target == "" {
		return "", &types.AuthError{Reason: "no list selected"}
	}

	label := lists.ItemLabel(product)

	items, err := f.lists.Items(ctx, target)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if strings.EqualFold(item.Label, label) {
			return label, ErrDuplicateItem
		}
	}

	if err := f.lists.AddItem(ctx, label, target); err != nil {
		return "", err
	}

	// Remember the destination so future scans of this barcode
	// pre-select the same list.
	if err := f.overrides.Set(ctx, product.Barcode, types.OverridePatch{LastListID: &target}); err != nil {
		return "", err
	}

	listLabel := target
	if list, ok := f.lists.ListByID(target); ok {
		listLabel = list.Label
	}
	if err := f.history.MarkAdded(ctx, product.Barcode, listLabel); err != nil {
		return "", err
	}

	if f.notifier != nil {
		if err := f.notifier.ItemAdded(ctx, label, listLabel); err != nil {
			slog.Warn("item-added notification failed", "error", err)
		}
	}
	return label, nil
}
