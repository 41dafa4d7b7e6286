package audit

import (
	"context"
	"sync"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

// Ring is a bounded in-memory webhook log. The oldest entry is dropped when full.
type Ring struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	next    int
	full    bool
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{entries: make([]domain.AuditEntry, capacity)}
}

func (r *Ring) Append(ctx context.Context, entry domain.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Entries returns the log oldest first.
func (r *Ring) Entries(ctx context.Context) ([]domain.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]domain.AuditEntry(nil), r.entries[:r.next]...), nil
	}
	out := make([]domain.AuditEntry, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	out = append(out, r.entries[:r.next]...)
	return out, nil
}
