package queue

import (
	"context"

	"docverify-backend/internal/shared/telemetry"
)

// Client publishes transaction audit events.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// LogClient writes audit events to the structured log instead of a queue.
// It stands in for SQS in local runs so every recorded transaction still
// leaves an audit line.
type LogClient struct{}

// Send logs the event. It fails only when the message is not encodable.
func (LogClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := EncodeMessage(msg); err != nil {
		return err
	}
	telemetry.Info("transaction.audit", map[string]any{
		"transaction_id": msg.TransactionID,
		"client_id":      msg.ClientID,
		"result":         msg.Result,
		"error_code":     msg.ErrorCode,
		"request_id":     msg.RequestID,
		"version":        msg.Version,
	})
	return nil
}

var _ Client = LogClient{}
