// Package notice implements the client's transient status messages. At most
// one notice is active; a new one replaces it.
package notice

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/google/uuid"
)

const DefaultTTL = 5 * time.Second

// Board holds the active notice and expires it after the TTL.
type Board struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	cur   *models.Notice
	timer *time.Timer

	subMu  sync.Mutex
	subs   map[int]func(*models.Notice)
	nextID int
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		ttl:  ttl,
		now:  time.Now,
		subs: make(map[int]func(*models.Notice)),
	}
}

func (b *Board) Success(msg string) models.Notice {
	return b.show(msg, models.NoticeSuccess)
}

func (b *Board) Error(msg string) models.Notice {
	return b.show(msg, models.NoticeError)
}

func (b *Board) show(msg string, kind models.NoticeKind) models.Notice {
	n := models.Notice{
		ID:        uuid.NewString(),
		Message:   msg,
		Kind:      kind,
		CreatedAt: b.now(),
	}

	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.cur = &n
	id := n.ID
	b.timer = time.AfterFunc(b.ttl, func() { b.Dismiss(id) })
	b.mu.Unlock()

	b.notify(&n)
	return n
}

// Dismiss removes the notice with the given id. It does nothing if that
// notice has already been replaced or dismissed.
func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	if b.cur == nil || b.cur.ID != id {
		b.mu.Unlock()
		return
	}
	b.cur = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	b.notify(nil)
}

// Current returns the active notice, if any.
func (b *Board) Current() (models.Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur == nil {
		return models.Notice{}, false
	}
	return *b.cur, true
}

// Subscribe registers fn for every change; fn receives nil when the active
// notice goes away.
func (b *Board) Subscribe(fn func(*models.Notice)) (cancel func()) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Board) notify(n *models.Notice) {
	b.subMu.Lock()
	fns := make([]func(*models.Notice), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		var arg *models.Notice
		if n != nil {
			cp := *n
			arg = &cp
		}
		fn(arg)
	}
}
