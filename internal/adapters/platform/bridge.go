package platform

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// EventKind tells the extension shim what to do with an event
type EventKind string

const (
	EventBadge        EventKind = "badge"
	EventNotification EventKind = "notification"
	EventNavigate     EventKind = "navigate"
)

// Event is a side effect queued for the extension shim
type Event struct {
	Kind         EventKind          `json:"kind"`
	TabID        int                `json:"tabId,omitempty"`
	Badge        *core.Badge        `json:"badge,omitempty"`
	Notification *core.Notification `json:"notification,omitempty"`
	URL          string             `json:"url,omitempty"`
	At           time.Time          `json:"at"`
}

// DefaultMaxEvents bounds the queue when the shim stops draining it
const DefaultMaxEvents = 1024

// Bridge implements core.Platform by recording side effects for an
// out-of-process extension shim to pick up
type Bridge struct {
	mu        sync.Mutex
	active    *core.Tab
	badges    map[int]core.Badge
	events    []Event
	maxEvents int
	logger    *zap.Logger
}

// NewBridge creates a bridge keeping at most maxEvents undelivered events
func NewBridge(maxEvents int, logger *zap.Logger) *Bridge {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Bridge{
		badges:    make(map[int]core.Badge),
		maxEvents: maxEvents,
		logger:    logger,
	}
}

// SetBadge records the badge for a tab and queues it
func (b *Bridge) SetBadge(tabID int, badge core.Badge) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.badges[tabID] = badge
	b.enqueue(Event{Kind: EventBadge, TabID: tabID, Badge: &badge})
	return nil
}

// Notify queues a notification
func (b *Bridge) Notify(ctx context.Context, n core.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.enqueue(Event{Kind: EventNotification, Notification: &n})
	return nil
}

// Navigate queues a forced navigation of a tab
func (b *Bridge) Navigate(tabID int, target string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active != nil && b.active.ID == tabID {
		b.active.URL = target
	}
	b.enqueue(Event{Kind: EventNavigate, TabID: tabID, URL: target})
	return nil
}

// ActiveTab returns the tab last reported as active
func (b *Bridge) ActiveTab(ctx context.Context) (core.Tab, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active == nil {
		return core.Tab{}, false, nil
	}
	return *b.active, true, nil
}

// SetActiveTab records the tab the user is looking at
func (b *Bridge) SetActiveTab(tab core.Tab) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = &tab
}

// Badge returns the last badge set for a tab
func (b *Bridge) Badge(tabID int) (core.Badge, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	badge, ok := b.badges[tabID]
	return badge, ok
}

// Drain returns and clears the queued events
func (b *Bridge) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.events
	b.events = nil
	return events
}

// enqueue is called with b.mu held
func (b *Bridge) enqueue(e Event) {
	e.At = time.Now()
	if len(b.events) >= b.maxEvents {
		dropped := len(b.events) - b.maxEvents + 1
		b.events = b.events[dropped:]
		b.logger.Warn("Event queue full, dropping oldest events", zap.Int("dropped", dropped))
	}
	b.events = append(b.events, e)
}
