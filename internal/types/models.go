package types

import (
	"time"
)

// Session is the authenticated account state. It is never constructed
// without a resolved FrameID: frame discovery must succeed before a
// session is published or persisted.
type Session struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	FrameID string `json:"frame_id"`
	Email   string `json:"email"`
}

type ListKind string

const (
	ListKindShopping ListKind = "shopping"
	ListKindToDo     ListKind = "to_do"
)

// ListSummary is an immutable snapshot of a remote list. The full set for
// a session is always replaced wholesale, never patched.
type ListSummary struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Color string   `json:"color,omitempty"`
	Kind  ListKind `json:"kind"`
}

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
)

// ListItem is a remote list entry. Read-only on this side except for creation.
type ListItem struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Status ItemStatus `json:"status"`
}

// Product is looked-up product data keyed by barcode.
type Product struct {
	Barcode    string   `json:"barcode"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	Quantity   string   `json:"quantity,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// ProductOverride is a locally persisted user correction for one barcode.
// Non-empty Name/Brand take precedence over freshly looked-up values.
type ProductOverride struct {
	Barcode    string    `json:"barcode"`
	Name       string    `json:"name,omitempty"`
	Brand      string    `json:"brand,omitempty"`
	LastListID string    `json:"last_list_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OverridePatch is a partial update to a ProductOverride. Nil fields are
// left unchanged on merge.
type OverridePatch struct {
	Name       *string
	Brand      *string
	LastListID *string
}

// HistoryEntry is one scan in the local history. The history keeps at most
// one entry per barcode, most recent first.
type HistoryEntry struct {
	ID          HistoryEntryID `json:"id"`
	Product     Product        `json:"product"`
	ScannedAt   time.Time      `json:"scanned_at"`
	AddedToList string         `json:"added_to_list,omitempty"`
}
