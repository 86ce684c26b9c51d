package bus

import (
	"encoding/json"
	log "log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event kinds, one per hand-off file.
const (
	KindRecording  = "recording"
	KindTranscript = "transcript"
	KindNotes      = "notes"
)

type Event struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	Kind    string    `json:"kind"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Publisher announces finished stages on a websocket hub. A nil Publisher
// publishes nothing.
type Publisher struct {
	conn *websocket.Conn
	from string
}

// Dial connects to wsURL. An empty URL returns a nil Publisher.
func Dial(wsURL, from string) (*Publisher, error) {
	if wsURL == "" {
		return nil, nil
	}

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Debug("Connected to bus", "url", wsURL)
	return &Publisher{conn: conn, from: from}, nil
}

func (p *Publisher) Publish(kind, content string) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(Event{
		ID:      uuid.NewString(),
		From:    p.from,
		Kind:    kind,
		Content: content,
		Time:    time.Now(),
	})
	if err != nil {
		return err
	}

	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.conn.Close()
}
