package usecase

import (
	"context"

	"github.com/comptrack/backend/domain"
)

// Buffered milestone operations.
const (
	OperationCreate       = "create"
	OperationUpdateStatus = "update_status"
)

// OperationBuffer abstracts the write-behind buffer so use cases stay
// storage-agnostic. Only milestone mutations are buffered; SMS sends are
// single-attempt by contract and never enter the buffer.
type OperationBuffer interface {
	BufferMilestone(ctx context.Context, operation string, milestone *domain.Milestone) error
}
