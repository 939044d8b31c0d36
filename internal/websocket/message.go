package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeEvent MessageType = "event"
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
)

// Message is the envelope for every frame exchanged with admin sessions.
type Message struct {
	Type      MessageType     `json:"type"`
	Event     string          `json:"event,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func NewMessage(msgType MessageType, event string, payload any) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v any) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
