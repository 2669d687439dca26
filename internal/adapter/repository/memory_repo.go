package repository

import (
	"context"
	"sync"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
)

// MemorySessions is the session store used when no database is reachable.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]domain.Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: map[uuid.UUID]domain.Session{}}
}

func (m *MemorySessions) Create(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemorySessions) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemorySessions) SaveContext(ctx context.Context, id uuid.UUID, fileName, text string, tokens int, at time.Time) error {
	return m.update(id, func(s *domain.Session) {
		s.ContextFileName = fileName
		s.ResumeContext = text
		s.ContextTokens = tokens
		s.UpdatedAt = at
	})
}

func (m *MemorySessions) SavePreview(ctx context.Context, id uuid.UUID, latex string, lastUpdated int64, at time.Time) error {
	return m.update(id, func(s *domain.Session) {
		s.LatexContent = latex
		s.ResumeLastUpdated = lastUpdated
		s.UpdatedAt = at
	})
}

func (m *MemorySessions) update(id uuid.UUID, fn func(*domain.Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return usecase.ErrSessionNotFound
	}
	fn(&s)
	m.sessions[id] = s
	return nil
}
