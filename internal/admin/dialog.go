package admin

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type openDialog struct {
	dialog    Dialog
	commit    Commit
	expiresAt time.Time
}

// Dialogs keeps the open confirmation dialogs of every session.
type Dialogs struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]map[string]openDialog
}

func NewDialogs(ttl time.Duration) *Dialogs {
	return &Dialogs{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]map[string]openDialog),
	}
}

// Open registers a dialog for sessionID and returns it with a fresh ID.
func (r *Dialogs) Open(sessionID string, d Dialog, commit Commit) Dialog {
	now := r.now()
	d.ID = uuid.NewString()
	d.IsOpen = true
	d.CreatedAt = now.UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	open, ok := r.sessions[sessionID]
	if !ok {
		open = make(map[string]openDialog)
		r.sessions[sessionID] = open
	}
	open[d.ID] = openDialog{dialog: d, commit: commit, expiresAt: now.Add(r.ttl)}
	return d
}

// Get returns an open dialog without closing it.
func (r *Dialogs) Get(sessionID, id string) (Dialog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	od, ok := r.lookup(sessionID, id)
	if !ok {
		return Dialog{}, false
	}
	return od.dialog, true
}

// Take closes a dialog and hands back its commit.
func (r *Dialogs) Take(sessionID, id string) (Dialog, Commit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	od, ok := r.lookup(sessionID, id)
	if !ok {
		return Dialog{}, nil, false
	}
	r.remove(sessionID, id)
	od.dialog.IsOpen = false
	return od.dialog, od.commit, true
}

// Cancel closes a dialog without running it.
func (r *Dialogs) Cancel(sessionID, id string) (Dialog, bool) {
	d, _, ok := r.Take(sessionID, id)
	return d, ok
}

// Sweep drops expired dialogs and returns how many were removed.
func (r *Dialogs) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sid, open := range r.sessions {
		for id, od := range open {
			if now.After(od.expiresAt) {
				delete(open, id)
				removed++
			}
		}
		if len(open) == 0 {
			delete(r.sessions, sid)
		}
	}
	return removed
}

// lookup must be called with r.mu held.
func (r *Dialogs) lookup(sessionID, id string) (openDialog, bool) {
	od, ok := r.sessions[sessionID][id]
	if !ok {
		return openDialog{}, false
	}
	if r.now().After(od.expiresAt) {
		r.remove(sessionID, id)
		return openDialog{}, false
	}
	return od, true
}

func (r *Dialogs) remove(sessionID, id string) {
	open := r.sessions[sessionID]
	delete(open, id)
	if len(open) == 0 {
		delete(r.sessions, sessionID)
	}
}
