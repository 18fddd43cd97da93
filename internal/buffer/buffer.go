package buffer

import (
	"sync"
	"time"
)

// Message is one captured chat message. Messages live only in memory; a
// process restart empties every buffer.
type Message struct {
	ChatID    int64
	MessageID int
	SenderID  int64
	Sender    string
	Text      string
	Timestamp time.Time
	Seq       uint64
}

// Status describes a chat buffer at a point in time.
type Status struct {
	Count         int
	Capacity      int
	SinceSummary  int
	LastSummaryAt time.Time
}

// AutoSummarize reports whether a full buffer of messages accumulated since
// the last summary.
func (s Status) AutoSummarize() bool {
	return s.SinceSummary >= s.Capacity
}

// buffer holds the rolling message window for a single chat. All access goes
// through its mutex so concurrent webhook-style delivery stays safe.
type buffer struct {
	mu           sync.Mutex
	capacity     int
	seq          uint64
	msgs         []Message
	sinceSummary int
	lastSummary  time.Time
}

func (b *buffer) append(msg Message) Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	msg.Seq = b.seq

	b.msgs = append(b.msgs, msg)
	if len(b.msgs) > b.capacity {
		b.msgs = b.msgs[len(b.msgs)-b.capacity:]
	}
	b.sinceSummary++

	return b.statusLocked()
}

func (b *buffer) snapshot(n int) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > len(b.msgs) {
		n = len(b.msgs)
	}
	if n <= 0 {
		return nil
	}

	out := make([]Message, n)
	copy(out, b.msgs[len(b.msgs)-n:])
	return out
}

func (b *buffer) markSummarized(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinceSummary = 0
	b.lastSummary = at
}

func (b *buffer) status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusLocked()
}

func (b *buffer) statusLocked() Status {
	return Status{
		Count:         len(b.msgs),
		Capacity:      b.capacity,
		SinceSummary:  b.sinceSummary,
		LastSummaryAt: b.lastSummary,
	}
}

// Manager keys one buffer per chat. Buffers are created lazily on first
// append and never destroyed; chats do not share any mutable state.
type Manager struct {
	mu       sync.RWMutex
	capacity int
	minN     int
	maxN     int
	chats    map[int64]*buffer
}

// NewManager builds a manager whose buffers hold capacity messages each.
// Snapshot sizes are clamped into [minCount, maxCount].
func NewManager(capacity, minCount, maxCount int) *Manager {
	if minCount <= 0 {
		minCount = 10
	}
	if maxCount < minCount {
		maxCount = 200
	}
	if capacity < minCount {
		capacity = minCount
	}
	if capacity > maxCount {
		capacity = maxCount
	}
	return &Manager{
		capacity: capacity,
		minN:     minCount,
		maxN:     maxCount,
		chats:    make(map[int64]*buffer),
	}
}

// Capacity returns the per-chat buffer capacity.
func (m *Manager) Capacity() int {
	return m.capacity
}

// ClampCount forces a requested message count into the configured snapshot
// range. Out-of-range values are clamped, not rejected.
func (m *Manager) ClampCount(n int) int {
	if n < m.minN {
		return m.minN
	}
	if n > m.maxN {
		return m.maxN
	}
	return n
}

// Append records a message at the tail of the chat's buffer, evicting the
// oldest entry when the buffer is full. Append always succeeds.
func (m *Manager) Append(chatID int64, msg Message) Status {
	return m.bufferFor(chatID).append(msg)
}

// Snapshot returns up to n of the most recent messages for the chat in
// chronological order. The result is a copy; the buffer is not mutated.
func (m *Manager) Snapshot(chatID int64, n int) []Message {
	m.mu.RLock()
	b, ok := m.chats[chatID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return b.snapshot(m.ClampCount(n))
}

// Status reports the buffer state for a chat. Chats that never produced a
// message report an empty buffer at full capacity.
func (m *Manager) Status(chatID int64) Status {
	m.mu.RLock()
	b, ok := m.chats[chatID]
	m.mu.RUnlock()
	if !ok {
		return Status{Capacity: m.capacity}
	}
	return b.status()
}

// MarkSummarized resets the chat's since-last-summary counter. Buffered
// messages are kept; only the bookkeeping changes.
func (m *Manager) MarkSummarized(chatID int64) {
	m.mu.RLock()
	b, ok := m.chats[chatID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	b.markSummarized(time.Now().UTC())
}

func (m *Manager) bufferFor(chatID int64) *buffer {
	m.mu.RLock()
	b, ok := m.chats[chatID]
	m.mu.RUnlock()
	if ok {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok = m.chats[chatID]; ok {
		return b
	}
	b = &buffer{capacity: m.capacity}
	m.chats[chatID] = b
	return b
}
