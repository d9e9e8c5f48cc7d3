package notify

import (
	"context"

	"github.com/metabuildlab/lims/pkg/common/uuid"
)

type Action string

const (
	SampleStatusChanged Action = "sample-status-changed"
	JobStatusChanged    Action = "job-status-changed"
	ReceiptCreated      Action = "receipt-created"
	InvoiceIssued       Action = "invoice-issued"
)

type SendMsg struct {
	Channel    Action    `json:"action"`
	SampleUUID uuid.UUID `json:"sample_uuid"`
	EntityID   string    `json:"entity_id"`
	ActorID    int64     `json:"actor_id"`
	Data       any       `json:"data"`
	UUID       uuid.UUID `json:"uuid"`
	Timestamp  int64     `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
