package feed

import (
	"context"
	"log"
	"sync"
	"time"
)

// staleAfter is how long the stream may stay silent before the connection is
// considered dead. The booking system pings through quiet periods, so a
// silent connection is a broken one.
const staleAfter = 5 * time.Minute

// Invalidator is what a booking event triggers. The query cache satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Listener handles booking stream lifecycle, reconnection and cache
// invalidation.
type Listener struct {
	feedURL     string
	invalidator Invalidator

	mu          sync.Mutex
	client      *Client
	lastMsgTime time.Time
}

// NewListener creates a new Listener.
func NewListener(feedURL string, invalidator Invalidator) *Listener {
	return &Listener{
		feedURL:     feedURL,
		invalidator: invalidator,
		lastMsgTime: time.Now(),
	}
}

// Connect establishes the initial booking stream connection.
func (l *Listener) Connect() error {
	log.Println("🔌 Connecting to booking event stream...")
	client := NewClient(l.feedURL)

	if err := client.Connect(); err != nil {
		return err
	}
	client.StartPing(25 * time.Second)

	l.mu.Lock()
	l.client = client
	l.lastMsgTime = time.Now()
	l.mu.Unlock()

	log.Println("✅ Booking event stream connected!")
	return nil
}

// markActivity records that the stream produced a message.
func (l *Listener) markActivity() {
	l.mu.Lock()
	l.lastMsgTime = time.Now()
	l.mu.Unlock()
}

// stale reports whether the stream has been silent past the threshold.
func (l *Listener) stale(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastMsgTime) > staleAfter
}

// currentClient returns the active stream client.
func (l *Listener) currentClient() *Client {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.client
}

// Run reads booking events until the context is canceled, bumping the cache
// generation on every ledger change. Read failures trigger reconnection with
// backoff; the loop never gives up while the context lives.
func (l *Listener) Run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			_ = l.Close()
			return
		default:
		}

		event, err := l.currentClient().ReadEvent()
		if err != nil {
			log.Printf("⚠️  Booking stream read failed: %v, reconnecting in %v...", err, backoff)
			_ = l.Close()

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}

			if err := l.Connect(); err != nil {
				log.Printf("⚠️  Booking stream reconnect failed: %v", err)
			}
			continue
		}

		backoff = time.Second
		l.markActivity()
		l.handleEvent(ctx, event)
	}
}

// RunHealthMonitor watches for a silent stream and force-closes the
// connection when it goes stale. Run's blocked read then fails and its
// reconnect path takes over, so the monitor never dials on its own.
func (l *Listener) RunHealthMonitor(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	log.Println("💓 Booking stream health monitoring started")

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Booking stream health monitoring stopped")
			return
		case <-ticker.C:
			if l.stale(time.Now()) {
				log.Printf("⚠️  No booking stream message for over %v, forcing reconnect...", staleAfter)
				_ = l.Close()
			}
		}
	}
}

// handleEvent reacts to one booking event. Only ledger-changing events
// invalidate the cache; unknown event types are logged and skipped.
func (l *Listener) handleEvent(ctx context.Context, event *BookingEvent) {
	switch event.Type {
	case EventBookingPosted, EventBookingUpdated:
		if err := l.invalidator.Invalidate(ctx); err != nil {
			log.Printf("⚠️  Cache invalidation failed for event %s: %v", event.EventID, err)
			return
		}
		log.Printf("🔄 Ledger changed (%s, txn %d), caches invalidated", event.Type, event.TransactionID)
	default:
		log.Printf("Skipping unknown booking event type %q (%s)", event.Type, event.EventID)
	}
}

// Close closes the stream connection.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
