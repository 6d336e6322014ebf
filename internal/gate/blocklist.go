package gate

import (
	"sync"
	"time"
)

// BlockEntry records why and for how long an identifier is denied.
type BlockEntry struct {
	Reason    string    `json:"reason"`
	BlockedAt time.Time `json:"blocked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BlockList is a per-identifier temporary deny list. Entries expire lazily:
// an expired entry is deleted the first time it is read, not by a timer.
type BlockList struct {
	mu       sync.Mutex
	duration time.Duration
	entries  map[string]BlockEntry
	now      func() time.Time
}

// NewBlockList creates a block list whose entries last for duration.
func NewBlockList(duration time.Duration) *BlockList {
	return &BlockList{
		duration: duration,
		entries:  make(map[string]BlockEntry),
		now:      time.Now,
	}
}

// SetDuration changes how long future blocks last. Existing entries keep
// their expiry.
func (bl *BlockList) SetDuration(d time.Duration) {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	bl.duration = d
}

// Block denies the identifier for the configured duration. An existing entry
// is overwritten, which moves its expiry forward.
func (bl *BlockList) Block(identifier, reason string) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	now := bl.now()
	bl.entries[identifier] = BlockEntry{
		Reason:    reason,
		BlockedAt: now,
		ExpiresAt: now.Add(bl.duration),
	}
}

// Unblock removes the identifier's entry, if any, and reports whether an
// entry was removed. Expired entries count as absent.
func (bl *BlockList) Unblock(identifier string) bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	e, ok := bl.entries[identifier]
	if !ok {
		return false
	}
	delete(bl.entries, identifier)
	return !bl.now().After(e.ExpiresAt)
}

// IsBlocked reports whether the identifier is currently denied, deleting the
// entry if it has expired.
func (bl *BlockList) IsBlocked(identifier string) bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	e, ok := bl.entries[identifier]
	if !ok {
		return false
	}
	if bl.now().After(e.ExpiresAt) {
		delete(bl.entries, identifier)
		return false
	}
	return true
}

// Entry returns the active block entry for the identifier, if any. Expired
// entries are deleted on read, same as IsBlocked.
func (bl *BlockList) Entry(identifier string) (BlockEntry, bool) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	e, ok := bl.entries[identifier]
	if !ok {
		return BlockEntry{}, false
	}
	if bl.now().After(e.ExpiresAt) {
		delete(bl.entries, identifier)
		return BlockEntry{}, false
	}
	return e, true
}

// Sweep removes expired entries and returns how many were evicted.
func (bl *BlockList) Sweep() int {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	now := bl.now()
	evicted := 0
	for id, e := range bl.entries {
		if now.After(e.ExpiresAt) {
			delete(bl.entries, id)
			evicted++
		}
	}
	return evicted
}

// Size reports the number of stored entries, expired or not.
func (bl *BlockList) Size() int {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	return len(bl.entries)
}
