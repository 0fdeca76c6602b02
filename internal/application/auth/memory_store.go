package auth

import (
	"sync"

	"github.com/jhoicas/usa-store/internal/domain/entity"
)

var (
	_ SessionStore = (*MemorySessionStore)(nil)
	_ LockoutStore = (*MemoryLockoutStore)(nil)
)

// MemorySessionStore guarda la sesión en memoria; se pierde al reiniciar el proceso.
type MemorySessionStore struct {
	mu      sync.RWMutex
	current *entity.Session
}

// NewMemorySessionStore crea un slot vacío.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Get devuelve una copia de la sesión actual o nil.
func (s *MemorySessionStore) Get() *entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *MemorySessionStore) Set(sess *entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil {
		s.current = nil
		return
	}
	cp := *sess
	s.current = &cp
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Reset equivale a Clear.
func (s *MemorySessionStore) Reset() { s.Clear() }

// MemoryLockoutStore mapa username -> intentos, protegido por mutex.
type MemoryLockoutStore struct {
	mu      sync.Mutex
	entries map[string]entity.LoginAttemptState
}

// NewMemoryLockoutStore crea el mapa vacío.
func NewMemoryLockoutStore() *MemoryLockoutStore {
	return &MemoryLockoutStore{entries: make(map[string]entity.LoginAttemptState)}
}

func (s *MemoryLockoutStore) Get(key string) entity.LoginAttemptState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key]
}

func (s *MemoryLockoutStore) Update(key string, fn func(st *entity.LoginAttemptState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.entries[key]
	fn(&st)
	s.entries[key] = st
}

func (s *MemoryLockoutStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Reset olvida todos los intentos (equivale a reiniciar el proceso).
func (s *MemoryLockoutStore) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]entity.LoginAttemptState)
	s.mu.Unlock()
}
