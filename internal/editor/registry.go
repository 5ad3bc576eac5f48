package editor

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	ownerID string
	editor  *Editor
	touched time.Time
}

// Registry keeps the open editor sessions of all coaches in memory.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	persister Persister
	log       *logger.Logger
	now       func() time.Time
}

func NewRegistry(p Persister, log *logger.Logger) *Registry {
	return &Registry{
		sessions:  make(map[string]*session),
		persister: p,
		log:       log,
		now:       time.Now,
	}
}

// Open starts a session on t for ownerID, the actor doing the editing, and
// returns the session ID.
func (r *Registry) Open(ownerID string, t *domain.Template) (string, *Editor) {
	ed := New(t, r.persister, r.log)
	id := uuid.NewString()

	r.mu.Lock()
	r.sessions[id] = &session{ownerID: ownerID, editor: ed, touched: r.now()}
	r.mu.Unlock()

	r.log.Debug("editor session opened", "sessionId", id, "ownerId", ownerID, "templateId", t.ID)
	return id, ed
}

// Get returns the session's editor. Sessions owned by someone else look
// like missing ones.
func (r *Registry) Get(id, ownerID string) (*Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.ownerID != ownerID {
		return nil, ErrSessionNotFound
	}
	s.touched = r.now()
	return s.editor, nil
}

func (r *Registry) Close(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.ownerID != ownerID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Sweep closes sessions idle for longer than maxIdle and returns how many
// were closed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.touched.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("closed idle editor sessions", "count", n)
	}
	return n
}
