package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	OperationCreate       = "create"
	OperationUpdateStatus = "update_status"
)

// Item is a deferred milestone mutation, persisted while Postgres is
// unavailable and replayed by the processor once it comes back.
type Item struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
