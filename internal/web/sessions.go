package web

import (
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/ops"
)

// MaxOpenSessions caps the picker sessions kept in memory.
const MaxOpenSessions = 32

// Target is where a picker session inserts its chosen sticker.
// An empty Document means the reference is only shown, not inserted.
type Target struct {
	Document string
	Cursor   editor.Cursor
}

// pickerSession is an open picker and the document it was opened for.
type pickerSession struct {
	id      string
	session *ops.Session
	target  Target
}

// sessionTable holds open picker sessions keyed by ULID.
type sessionTable struct {
	mu       sync.Mutex
	sessions map[string]*pickerSession
	max      int
}

func newSessionTable(max int) *sessionTable {
	return &sessionTable{sessions: make(map[string]*pickerSession), max: max}
}

// add registers a session under a new ID, evicting the oldest sessions when full.
func (t *sessionTable) add(session *ops.Session, target Target) *pickerSession {
	ps := &pickerSession{
		id:      ulid.Make().String(),
		session: session,
		target:  target,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.sessions) >= t.max {
		t.evictOldestLocked()
	}
	t.sessions[ps.id] = ps
	return ps
}

// evictOldestLocked closes the session with the smallest ULID.
// ULIDs sort by creation time.
func (t *sessionTable) evictOldestLocked() {
	oldest := ""
	for id := range t.sessions {
		if oldest == "" || id < oldest {
			oldest = id
		}
	}
	if ps, ok := t.sessions[oldest]; ok {
		ps.session.Close()
		delete(t.sessions, oldest)
		logger.Debug("picker session evicted", "id", oldest)
	}
}

func (t *sessionTable) get(id string) (*pickerSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, ok := t.sessions[id]
	return ps, ok
}

// remove closes and forgets the session. Unknown IDs are ignored.
func (t *sessionTable) remove(id string) bool {
	t.mu.Lock()
	ps, ok := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()

	if ok {
		ps.session.Close()
	}
	return ok
}

func (t *sessionTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
