package types

import (
	"context"
)

// Notifier receives a message after an item lands on a remote list.
// Implementations must not block the add flow on delivery problems.
type Notifier interface {
	ItemAdded(ctx context.Context, itemLabel, listLabel string) error
}
