// Package session owns the console's authentication state: the credential
// store and the gate that moves it between Unauthenticated, Authenticating
// and Authenticated.
package session

import (
	"sync"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// Store holds the single live credential and identity for the lifetime of
// the process. Everything outside this package reads it; only Gate writes.
type Store struct {
	mu         sync.RWMutex
	state      domain.SessionState
	credential domain.Credential
	identity   domain.Identity
	epoch      uint64
}

// NewStore returns an empty store in the Unauthenticated state.
func NewStore() *Store {
	return &Store{state: domain.StateUnauthenticated}
}

// Snapshot returns the state, identity and epoch without the credential.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{State: s.state, Identity: s.identity, Epoch: s.epoch}
}

// Current returns the live credential and the epoch it belongs to. Outside
// the Authenticated state the credential is zero.
func (s *Store) Current() (domain.Credential, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.StateAuthenticated {
		return domain.Credential{}, s.epoch
	}
	return s.credential, s.epoch
}

// Epoch returns the current session epoch.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// begin clears any live credential, enters Authenticating and returns the
// epoch that identifies this attempt.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = domain.StateAuthenticating
	s.credential = domain.Credential{}
	s.identity = nil
	return s.epoch
}

// complete stores the verified credential if the attempt is still current.
func (s *Store) complete(epoch uint64, cred domain.Credential, id domain.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state != domain.StateAuthenticating {
		return false
	}
	s.epoch++
	s.state = domain.StateAuthenticated
	s.credential = cred
	s.identity = id
	return true
}

// fail returns an in-flight attempt to Unauthenticated if it is still current.
func (s *Store) fail(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.epoch++
	s.state = domain.StateUnauthenticated
	s.credential = domain.Credential{}
	s.identity = nil
	return true
}

// clear drops everything. When epoch is non-zero it only applies to that epoch.
func (s *Store) clear(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != 0 && s.epoch != epoch {
		return false
	}
	if s.state == domain.StateUnauthenticated && s.credential.IsZero() {
		return false
	}
	s.epoch++
	s.state = domain.StateUnauthenticated
	s.credential = domain.Credential{}
	s.identity = nil
	return true
}
