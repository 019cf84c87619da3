// Package activity records the actions users perform so the history
// and stats commands and the admin event stream can report them.
package activity

import (
	"sync"
	"time"
)

// Kind classifies a recorded action.
type Kind string

const (
	KindRepoSelect Kind = "repo_select"
	KindRepoCreate Kind = "repo_create"
	KindFileCreate Kind = "file_create"
	KindFileEdit   Kind = "file_edit"
	KindFileView   Kind = "file_view"
	KindFileDelete Kind = "file_delete"
	KindFileList   Kind = "file_list"
	KindBranch     Kind = "branch"
)

// DefaultCapacity bounds the per-user event ring.
const DefaultCapacity = 100

// Event is one recorded user action.
type Event struct {
	At     time.Time `yaml:"at" json:"at"`
	UserID string    `yaml:"user,omitempty" json:"user_id"`
	Kind   Kind      `yaml:"kind" json:"kind"`
	Repo   string    `yaml:"repo,omitempty" json:"repo,omitempty"`
	Path   string    `yaml:"path,omitempty" json:"path,omitempty"`
	Detail string    `yaml:"detail,omitempty" json:"detail,omitempty"`
}

type userLog struct {
	Events []Event      `yaml:"events"`
	Totals map[Kind]int `yaml:"totals"`
}

// Log is the in-memory activity log: a bounded per-user event ring
// plus lifetime counters. It is thread-safe and supports pub/sub for
// real-time streaming.
type Log struct {
	mu          sync.RWMutex
	capacity    int
	users       map[string]*userLog
	subscribers map[chan Event]struct{}
}

// NewLog creates an activity log. capacity <= 0 selects
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity:    capacity,
		users:       make(map[string]*userLog),
		subscribers: make(map[chan Event]struct{}),
	}
}

// Record appends an event to the user's ring, bumps the counters, and
// notifies subscribers. A zero At is stamped with the current time.
func (l *Log) Record(userID string, ev Event) {
	ev.UserID = userID
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	l.mu.Lock()
	ul, ok := l.users[userID]
	if !ok {
		ul = &userLog{Totals: make(map[Kind]int)}
		l.users[userID] = ul
	}
	ul.Events = append(ul.Events, ev)
	if len(ul.Events) > l.capacity {
		ul.Events = ul.Events[len(ul.Events)-l.capacity:]
	}
	ul.Totals[ev.Kind]++

	// Broadcast without holding slow clients against the writer
	for ch := range l.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
	l.mu.Unlock()
}

// Recent returns up to n of the user's events, newest first.
func (l *Log) Recent(userID string, n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ul, ok := l.users[userID]
	if !ok || n <= 0 {
		return nil
	}
	if n > len(ul.Events) {
		n = len(ul.Events)
	}

	out := make([]Event, 0, n)
	for i := len(ul.Events) - 1; i >= len(ul.Events)-n; i-- {
		out = append(out, ul.Events[i])
	}
	return out
}

// Totals returns a copy of the user's lifetime counters by kind.
func (l *Log) Totals(userID string) map[Kind]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ul, ok := l.users[userID]
	if !ok {
		return nil
	}
	out := make(map[Kind]int, len(ul.Totals))
	for k, v := range ul.Totals {
		out[k] = v
	}
	return out
}

// Subscribe creates a buffered subscription channel for events as
// they are recorded. Events are dropped rather than block a slow
// subscriber.
func (l *Log) Subscribe() chan Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan Event, 100)
	l.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (l *Log) Unsubscribe(ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subscribers, ch)
	close(ch)
}
