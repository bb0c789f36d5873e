// Package feed subscribes to the booking event stream published by the
// office's booking system. Events only carry the fact that the ledger
// changed; the analytics engine re-reads the ledger itself, so a missed
// event degrades freshness, never correctness.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Booking event types published by the booking system
const (
	EventBookingPosted  = "booking.posted"
	EventBookingUpdated = "booking.updated"
)

// BookingEvent is one message on the booking stream.
type BookingEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	TransactionID int64     `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Client represents a WebSocket client on the booking stream
type Client struct {
	url        string
	conn       *websocket.Conn
	header     http.Header
	writeMu    sync.Mutex
	pingCancel context.CancelFunc // Cancel function for ping goroutine
}

// NewClient creates a new WebSocket client
func NewClient(url string) *Client {
	header := make(http.Header)
	header.Set("User-Agent", "agency-backoffice")
	header.Set("X-Client-ID", uuid.NewString())

	return &Client{
		url:    url,
		header: header,
	}
}

// Connect establishes WebSocket connection
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, c.header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.conn = conn
	log.Printf("✅ Connected to %s", c.url)
	return nil
}

// StartPing starts periodic ping to keep connection alive
func (c *Client) StartPing(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	c.pingCancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.writeMu.Lock()
				err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
				c.writeMu.Unlock()
				if err != nil {
					log.Println("Failed to send ping:", err)
					return
				}
			}
		}
	}()
}

// ReadEvent reads and decodes the next booking event.
func (c *Client) ReadEvent() (*BookingEvent, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("client not connected")
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode booking event: %w", err)
	}
	return &event, nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	if c.pingCancel != nil {
		c.pingCancel()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
