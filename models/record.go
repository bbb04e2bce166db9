package models

import "time"

// StoredRecord is a persisted client record, such as the saved identity
type StoredRecord struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
