package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
)

var _ usecase.SessionStore = (*MemorySessions)(nil)
var _ usecase.SessionStore = (*SessionsRepo)(nil)

func TestMemorySessions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessions()
	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := m.Create(ctx, &domain.Session{ID: id, CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	later := created.Add(time.Minute)
	if err := m.SaveContext(ctx, id, "cv.pdf", "Jane Doe", 2, later); err != nil {
		t.Fatalf("SaveContext() error = %v", err)
	}
	if err := m.SavePreview(ctx, id, `\documentclass{article}`, 1700000000000, later.Add(time.Minute)); err != nil {
		t.Fatalf("SavePreview() error = %v", err)
	}

	got, err := m.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ResumeContext != "Jane Doe" || got.ContextFileName != "cv.pdf" || got.ContextTokens != 2 {
		t.Errorf("context fields = %+v", got)
	}
	if got.LatexContent != `\documentclass{article}` || got.ResumeLastUpdated != 1700000000000 {
		t.Errorf("preview fields = %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(later.Add(time.Minute)) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	// returned sessions are copies
	got.LatexContent = "mutated"
	again, _ := m.Get(ctx, id)
	if again.LatexContent == "mutated" {
		t.Error("Get() returned a reference into the store")
	}
}

func TestMemorySessions_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessions()
	id := uuid.New()

	if _, err := m.Get(ctx, id); !errors.Is(err, usecase.ErrSessionNotFound) {
		t.Errorf("Get() error = %v", err)
	}
	if err := m.SaveContext(ctx, id, "", "", 0, time.Now()); !errors.Is(err, usecase.ErrSessionNotFound) {
		t.Errorf("SaveContext() error = %v", err)
	}
	if err := m.SavePreview(ctx, id, "", 0, time.Now()); !errors.Is(err, usecase.ErrSessionNotFound) {
		t.Errorf("SavePreview() error = %v", err)
	}
}

func TestMemorySessions_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessions()
	id := uuid.New()
	m.Create(ctx, &domain.Session{ID: id})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SavePreview(ctx, id, "x", int64(i), time.Now())
			m.Get(ctx, id)
		}(i)
	}
	wg.Wait()
	if _, err := m.Get(ctx, id); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}
