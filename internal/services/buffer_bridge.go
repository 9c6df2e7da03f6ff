package services

import (
	"context"
	"encoding/json"

	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/internal/infrastructure/buffer"
	"github.com/comptrack/backend/usecase"
)

// BufferBridge adapts the buffer processor to the usecase port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferMilestone(ctx context.Context, operation string, milestone *domain.Milestone) error {
	if b.processor == nil || milestone == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(milestone)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(ctx, buffer.Item{
		Operation: operation,
		Data:      payload,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
