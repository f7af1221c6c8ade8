package bot

import "sync"

// Session is an active guessing game. Fields never change after creation.
type Session struct {
	Puzzle string
	Answer string
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// SessionStore holds one Session per user in memory.
//
// Map access is guarded by mu. Lock serializes whole read-modify-write
// sequences for a single user so that a question turn and a concurrent end
// command cannot interleave; different users never share a lock. Lock entries
// are reference counted and dropped once no goroutine holds or waits on them.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	locks    map[string]*userLock
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		locks:    make(map[string]*userLock),
	}
}

// Lock acquires the per-user lock and returns its release function.
func (s *SessionStore) Lock(userID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Get returns the user's session, if any.
func (s *SessionStore) Get(userID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Put creates or replaces the user's session.
func (s *SessionStore) Put(userID string, sess Session) {
	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
}

// Delete removes the user's session and reports whether one existed.
func (s *SessionStore) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
