package queue

import (
	"encoding/json"
	"fmt"
)

const MessageVersion = 1

// Message is the audit event emitted once per persisted transaction.
type Message struct {
	TransactionID string `json:"transactionId"`
	ClientID      string `json:"clientId"`
	Result        bool   `json:"result"`
	ErrorCode     int    `json:"errorCode,omitempty"`
	RequestID     string `json:"requestId,omitempty"`
	EnqueuedAt    string `json:"enqueuedAt"`
	Version       int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.TransactionID == "" {
		return nil, fmt.Errorf("transactionId is required")
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	return msg, nil
}
