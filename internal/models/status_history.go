package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryEntry is one immutable audit record of a status transition.
// Entries are only ever appended, never rewritten.
type HistoryEntry struct {
	Status      TaskStatus `json:"status"`
	ChangedByID string     `json:"changed_by_id"`
	ChangedAt   time.Time  `json:"changed_at"`
	Note        string     `json:"note"`
}

// StatusHistory stores the insertion-ordered audit trail as a single JSON
// column on the task row, so a history append and the status field update
// commit in one write.
type StatusHistory []HistoryEntry

func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

func (h *StatusHistory) Scan(value interface{}) error {
	if value == nil {
		*h = StatusHistory{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("status history scan: unsupported type %T", value)
	}
}
