package renderer

import (
	"encoding/json"
	log "log/slog"
	"net/url"

	"github.com/gorilla/websocket"
)

// Interface is the narrow contract the core holds on the UI renderer.
type Interface interface {
	ReceiveMessage(kind string, payload any)
}

// Message is one JSON frame on the renderer bus. Kind is the UI state
// ("listening", "recognized", "speaking", "error", "idle"); Payload
// carries the recognized text or the full reply.
type Message struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// Bus connects the core to the UI renderer over a websocket. Outbound
// frames are state notifications; inbound "wake" frames make the
// renderer a trigger source.
type Bus struct {
	conn *websocket.Conn
}

func Dial(wsURL string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to renderer", "url", wsURL)
	return &Bus{conn: conn}, nil
}

// ReceiveMessage pushes a state notification to the renderer. Best
// effort: a broken UI must never fail a capture cycle.
func (b *Bus) ReceiveMessage(kind string, payload any) {
	data, err := json.Marshal(Message{Kind: kind, Payload: payload})
	if err != nil {
		log.Error("Failed to encode renderer message", "kind", kind, "err", err)
		return
	}
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("Failed to notify renderer", "kind", kind, "err", err)
	}
}

// ReadLoop consumes inbound frames and fires onWake for each "wake"
// request from the UI. Runs on its own goroutine; returns when the
// connection dies.
func (b *Bus) ReadLoop(onWake func()) {
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			log.Warn("Renderer connection closed", "err", err)
			return
		}

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn("Bad renderer frame", "err", err)
			continue
		}
		if m.Kind == "wake" {
			onWake()
		}
	}
}

func (b *Bus) Close() error {
	return b.conn.Close()
}

// None is the renderer used when no UI is attached.
type None struct{}

func (None) ReceiveMessage(string, any) {}
