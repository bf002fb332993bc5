package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const (
	FarmerRegistered          = "farmer.registered"
	FarmerVerificationChanged = "farmer.verification_changed"
	ProductCreated            = "product.created"
	ProductAttested           = "product.attested"
	OrderPlaced               = "order.placed"
)

// Event is the envelope written to the marketplace topic.
type Event struct {
	Name string         `json:"event"`
	ID   string         `json:"id"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

func (e Event) key() []byte {
	return []byte(e.Name)
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher emits domain events. Publishing never fails the calling operation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// Nop discards every event.
func Nop() Publisher {
	return nopPublisher{}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names lists the recorded event names in publish order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}
