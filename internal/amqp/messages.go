package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// LedgerChangeMessage announces that one ledger collection was rewritten.
// It carries no data: consumers reopen the ledger to read the new state.
type LedgerChangeMessage struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage creates a change message stamped with the current time
func NewLedgerChangeMessage(collection, operation string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Collection: collection,
		Operation:  operation,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON decodes a change message. A message without a
// collection is rejected.
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Collection == "" {
		return nil, errors.New("change message without collection")
	}
	return &msg, nil
}
