package handlers

import "sync"

type sessionLock struct {
	sync.Mutex
	refs int
}

// sessionLocks serialises moves on the same session id.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionId string) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[sessionId]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionId] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionId)
		}
		l.mu.Unlock()
	}
}
