package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	ID   int64       `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type subscriber struct {
	ch chan Event
}

// Hub fans events out to a user's connected sockets. Delivery is
// best-effort: slow consumers get dropped events, and clients refetch over
// REST after reconnecting. Recent events are mirrored to a redis list per
// user so a reconnecting client can replay what it missed.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint][]*subscriber // userID -> subscribers
	rdb         *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subscribers: make(map[uint][]*subscriber),
		rdb:         rdb,
	}
}

func streamKey(userID uint) string {
	return fmt.Sprintf("notify:stream:%d", userID)
}

func seqKey(userID uint) string {
	return fmt.Sprintf("notify:seq:%d", userID)
}

func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 256)}
	h.subscribers[userID] = append(h.subscribers[userID], sub)

	unsub := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[userID]
		for i, s := range subs {
			if s == sub {
				h.subscribers[userID] = append(subs[:i], subs[i+1:]...)
				close(sub.ch)
				break
			}
		}
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
	}
	return sub.ch, unsub
}

// Publish stamps the event with the user's next sequence number, appends
// it to the replay buffer, and fans it out to live connections. Delivery
// itself stays best-effort; the ID only makes replay resumable.
func (h *Hub) Publish(userID uint, event Event) {
	ctx := context.Background()
	key := streamKey(userID)

	if id, err := h.rdb.Incr(ctx, seqKey(userID)).Result(); err == nil {
		event.ID = id
	}
	h.rdb.Expire(ctx, seqKey(userID), 72*time.Hour)

	data, _ := json.Marshal(event)
	h.rdb.RPush(ctx, key, string(data))
	h.rdb.LTrim(ctx, key, -512, -1)
	h.rdb.Expire(ctx, key, 72*time.Hour)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[userID] {
		select {
		case sub.ch <- event:
		default:
			// drop if full
		}
	}
}

// ReplayFrom returns buffered events with an ID greater than fromID.
// Trimmed events are gone for good; the client refetches over REST when
// it notices a gap.
func (h *Hub) ReplayFrom(userID uint, fromID int64) ([]Event, error) {
	ctx := context.Background()

	items, err := h.rdb.LRange(ctx, streamKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return eventsAfter(events, fromID), nil
}

// eventsAfter keeps events with ID > fromID. IDs are monotonic per user,
// so the buffer stays sorted and a single cutoff is enough.
func eventsAfter(events []Event, fromID int64) []Event {
	out := events[:0]
	for _, ev := range events {
		if ev.ID > fromID {
			out = append(out, ev)
		}
	}
	return out
}

func ParseLastEventID(s string) int64 {
	if s == "" {
		return 0
	}
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}
