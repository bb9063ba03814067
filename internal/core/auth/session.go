// Package auth owns the client's authentication state: the session
// singleton, the identity provider, the on-disk credential cache, and the
// guard every authenticated network call goes through.
package auth

import "sync"

// Snapshot is an immutable view of the session handed to observers.
type Snapshot struct {
	User    *User
	Token   string
	Loading bool
}

// Session tracks whether a caller is authenticated and exposes the bearer
// credential. User and token are set and cleared together. Loading starts
// true and flips to false exactly once, on the first identity
// notification, signed-in or not.
type Session struct {
	mu        sync.Mutex
	user      *User
	token     string
	loading   bool
	refresh   func(token string)
	observers []func(Snapshot)
}

// NewSession creates a session in the loading state. refresh, if non-nil,
// is invoked on a detached goroutine after each sign-in; its failures are
// the refresher's to log and never fail the sign-in itself.
func NewSession(refresh func(token string)) *Session {
	return &Session{loading: true, refresh: refresh}
}

// Subscribe registers an observer for session changes. Observers are
// invoked synchronously with a snapshot, never with interior state.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Credentials returns the pair the guard needs.
func (s *Session) Credentials() (*User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.token
}

// HandleIdentityChange applies an identity-provider notification. A
// non-nil identity populates user and token and kicks off the tier
// refresh; nil clears both.
func (s *Session) HandleIdentityChange(id *Identity) {
	s.mu.Lock()
	if id != nil {
		u := id.User
		s.user = &u
		s.token = id.Token
	} else {
		s.user = nil
		s.token = ""
	}
	s.loading = false
	snap := s.snapshotLocked()
	observers := append([]func(Snapshot){}, s.observers...)
	refresh := s.refresh
	s.mu.Unlock()

	if id != nil && refresh != nil {
		go refresh(snap.Token)
	}
	for _, fn := range observers {
		fn(snap)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	var user *User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{User: user, Token: s.token, Loading: s.loading}
}
