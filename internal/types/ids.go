package types

import (
	"github.com/google/uuid"
)

type HistoryEntryID string

func NewHistoryEntryID() HistoryEntryID {
	return HistoryEntryID(uuid.New().String())
}
