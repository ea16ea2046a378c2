package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSessionStarted   EventType = "session.started"
	EventTypeLinePlaying      EventType = "line.playing"
	EventTypeChoicesPresented EventType = "choices.presented"
	EventTypeChoiceSelected   EventType = "choice.selected"
	EventTypeEventFired       EventType = "event.fired"
	EventTypeSessionEnded     EventType = "session.ended"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	SourceID  string         `json:"source_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel for a session's events.
func Channel(sessionID string) string {
	return fmt.Sprintf("dialogue-events:%s", sessionID)
}

// QueueSize is how many events may wait for Redis before new ones are dropped.
const QueueSize = 256

// Broadcaster publishes dialogue lifecycle events to Redis Pub/Sub. It
// implements dialogue.Listener. Listener calls only enqueue; a background
// goroutine publishes in order. Publish failures and a full queue are
// logged and never interrupt the session.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
	timeout     time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

var _ dialogue.Listener = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster and starts its publisher.
// Call Close to flush queued events.
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	b := newBroadcaster(redisClient, logger, QueueSize)
	go b.run()
	return b
}

func newBroadcaster(redisClient *redis.Client, logger *slog.Logger, size int) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
		timeout:     2 * time.Second,
		queue:       make(chan Event, size),
		done:        make(chan struct{}),
	}
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for event := range b.queue {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		// Errors are logged by Publish
		_ = b.Publish(ctx, event)
		cancel()
	}
}

// Close stops accepting events and waits until queued events are published.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()
	<-b.done
}

func (b *Broadcaster) SessionStarted(t *dialogue.Transcript) {
	b.publish(t, EventTypeSessionStarted, map[string]any{
		"mode": t.Mode.String(),
	})
}

func (b *Broadcaster) LinePlaying(t *dialogue.Transcript, line dialogue.TranscriptLine) {
	b.publish(t, EventTypeLinePlaying, map[string]any{
		"index":   len(t.Lines) - 1,
		"speaker": line.Speaker,
		"text":    line.Text,
	})
}

func (b *Broadcaster) ChoicesPresented(t *dialogue.Transcript, choices []story.Choice) {
	b.publish(t, EventTypeChoicesPresented, map[string]any{
		"choices": slices.Clone(choices),
	})
}

func (b *Broadcaster) ChoiceSelected(t *dialogue.Transcript, choice story.Choice) {
	b.publish(t, EventTypeChoiceSelected, map[string]any{
		"index": choice.Index,
		"text":  choice.Text,
	})
}

func (b *Broadcaster) EventFired(t *dialogue.Transcript, index int, name string) {
	b.publish(t, EventTypeEventFired, map[string]any{
		"index": index,
		"name":  name,
	})
}

func (b *Broadcaster) SessionEnded(t *dialogue.Transcript) {
	b.publish(t, EventTypeSessionEnded, map[string]any{
		"lines":   len(t.Lines),
		"choices": len(t.Choices),
	})
}

// publish enqueues without blocking the session.
func (b *Broadcaster) publish(t *dialogue.Transcript, typ EventType, data map[string]any) {
	event := Event{
		Type:      typ,
		SessionID: t.SessionID,
		SourceID:  t.SourceID,
		Data:      data,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.logger.Debug("Broadcaster closed; event not published", "event_type", typ, "session_id", t.SessionID)
		return
	}
	select {
	case b.queue <- event:
	default:
		b.logger.Warn("Event queue full; dropping event", "event_type", typ, "session_id", t.SessionID)
	}
}

// Publish publishes an event to the session-specific channel
func (b *Broadcaster) Publish(ctx context.Context, event Event) error {
	channel := Channel(event.SessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"session_id", event.SessionID,
	)

	return nil
}
