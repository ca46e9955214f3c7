package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Lifecycle event subjects.
const (
	SubjectFileUploaded  = "files.uploaded"
	SubjectFileDeleted   = "files.deleted"
	SubjectFolderDeleted = "folders.deleted"
)

type FileEvent struct {
	Action     string    `json:"action"`
	FileID     string    `json:"file_id"`
	ObjectName string    `json:"object_name"`
	Size       int64     `json:"size,omitempty"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type FolderEvent struct {
	Action     string    `json:"action"`
	FolderID   string    `json:"folder_id"`
	FileCount  int       `json:"file_count"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher emits lifecycle events to NATS. A nil publisher is valid and
// publishes nothing, so NATS stays optional. Publishing is best-effort:
// failures are logged, never surfaced to the request.
type EventPublisher struct {
	nc *nats.Conn
}

// ConnectNATS dials the server and keeps reconnecting on failure.
func ConnectNATS(url string) (*EventPublisher, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to NATS at", url)
	return &EventPublisher{nc: nc}, nil
}

func (p *EventPublisher) Publish(subject string, event interface{}) {
	if p == nil || p.nc == nil || !p.nc.IsConnected() {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("warning: failed to encode %s event: %v", subject, err)
		return
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		log.Printf("warning: failed to publish %s event: %v", subject, err)
	}
}

func (p *EventPublisher) Close() {
	if p != nil && p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
