// Package events defines the messages pushed to websocket subscribers while
// years load and summaries are built.
package events

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies a pushed message.
type MessageType string

const (
	MessageTypeConnect      MessageType = "connect"
	MessageTypeYearLoaded   MessageType = "year:loaded"
	MessageTypeYearFailed   MessageType = "year:failed"
	MessageTypeSummaryBuilt MessageType = "summary:built"
)

// Message is the envelope of every pushed message.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      any         `json:"data,omitempty"`
}

// NewMessage stamps data with a fresh id and the current time.
func NewMessage(t MessageType, traceID string, data any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      data,
	}
}

// YearEvent reports the outcome of loading one requested year.
type YearEvent struct {
	Year     string `json:"year"`
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Error    string `json:"error,omitempty"`
}

// SummaryEvent reports a finished summary.
type SummaryEvent struct {
	Years       []int    `json:"years"`
	Months      int      `json:"months"`
	FailedYears []string `json:"failed_years,omitempty"`
}

// ConnectEvent greets a new subscriber.
type ConnectEvent struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}
