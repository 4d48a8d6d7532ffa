// Package events defines the messages that trigger migration work.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	TypeDMSEvent = "dms_event"

	MethodInsert = "insert"
	MethodUpdate = "update"
	MethodDelete = "delete"

	TableServices = "services"
)

// ErrInvalidEvent is returned for a message body that is not a DMS event.
var ErrInvalidEvent = errors.New("invalid event format")

// DMSEvent is a single record change captured from the legacy database.
type DMSEvent struct {
	Type      string `json:"type"`
	RecordID  int64  `json:"record_id"`
	TableName string `json:"table_name"`
	Method    string `json:"method"`
}

// NewServiceInsert returns the event the queue populator sends per service.
func NewServiceInsert(id int64) DMSEvent {
	return DMSEvent{Type: TypeDMSEvent, RecordID: id, TableName: TableServices, Method: MethodInsert}
}

// ParseDMSEvent decodes and checks a message body. Every field is required.
func ParseDMSEvent(body []byte) (*DMSEvent, error) {
	var raw struct {
		Type      *string      `json:"type"`
		RecordID  *json.Number `json:"record_id"`
		TableName *string      `json:"table_name"`
		Method    *string      `json:"method"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if raw.Type != nil && *raw.Type != TypeDMSEvent {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidEvent, *raw.Type)
	}
	if raw.RecordID == nil || raw.TableName == nil || raw.Method == nil {
		return nil, fmt.Errorf("%w: record_id, table_name and method are required", ErrInvalidEvent)
	}
	id, err := raw.RecordID.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: record_id: %v", ErrInvalidEvent, err)
	}
	return &DMSEvent{Type: TypeDMSEvent, RecordID: id, TableName: *raw.TableName, Method: *raw.Method}, nil
}

// ReferenceDataEvent requests a reference data load.
type ReferenceDataEvent struct {
	Type string `json:"type"`
}

// Message is one queued message.
type Message struct {
	ID   string `json:"messageId"`
	Body string `json:"body"`
}

// Batch is the envelope posted to the event endpoint.
type Batch struct {
	Records []Message `json:"Records"`
}

// NewBatch wraps events as a batch of messages keyed by record id.
func NewBatch(evts []DMSEvent) (*Batch, error) {
	b := &Batch{Records: make([]Message, 0, len(evts))}
	for _, e := range evts {
		body, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		b.Records = append(b.Records, Message{ID: fmt.Sprint(e.RecordID), Body: string(body)})
	}
	return b, nil
}
