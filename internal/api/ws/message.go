package ws

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/browsim/internal/domain/navigation"
)

// Inbound message types
const (
	TypeNavigate     = "navigate"
	TypeInput        = "input"
	TypeNewTab       = "new_tab"
	TypeCloseTab     = "close_tab"
	TypeSwitchTab    = "switch_tab"
	TypeOpenHistory  = "open_history"
	TypeClearHistory = "clear_history"
	TypePing         = "ping"
)

// Outbound message types
const (
	TypeState = "state"
	TypePong  = "pong"
	TypeError = "error"
)

// Message is a client intent
type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Envelope is a server push
type Envelope struct {
	Type      string            `json:"type"`
	State     *navigation.State `json:"state,omitempty"`
	Message   string            `json:"message,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

func encodeState(state navigation.State) ([]byte, error) {
	return sonic.Marshal(Envelope{
		Type:      TypeState,
		State:     &state,
		Timestamp: time.Now().Unix(),
	})
}

func encodeNotice(msgType, message string) []byte {
	// Envelope without state always marshals
	data, _ := sonic.Marshal(Envelope{
		Type:      msgType,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
	return data
}

func decodeMessage(data []byte) (Message, error) {
	var msg Message
	err := sonic.Unmarshal(data, &msg)
	return msg, err
}
