package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

type mapStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]domain.Session
	saveErr  error
}

func newMapStore() *mapStore { return &mapStore{sessions: map[uuid.UUID]domain.Session{}} }

func (m *mapStore) Create(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *mapStore) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *mapStore) SaveContext(_ context.Context, id uuid.UUID, fileName, text string, tokens int, at time.Time) error {
	return m.update(id, func(s *domain.Session) {
		s.ContextFileName, s.ResumeContext, s.ContextTokens, s.UpdatedAt = fileName, text, tokens, at
	})
}

func (m *mapStore) SavePreview(_ context.Context, id uuid.UUID, latex string, lastUpdated int64, at time.Time) error {
	return m.update(id, func(s *domain.Session) {
		s.LatexContent, s.ResumeLastUpdated, s.UpdatedAt = latex, lastUpdated, at
	})
}

func (m *mapStore) update(id uuid.UUID, fn func(*domain.Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	fn(&s)
	m.sessions[id] = s
	return nil
}

func newTestSessions(store SessionStore) *Sessions {
	s := NewSessions(store, NewExtractor(nil, nil, nil), nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func TestSessions_Start(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)

	sess, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Error("session has no id")
	}
	got, err := s.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ResumeContext != "" || got.LatexContent != "" {
		t.Errorf("new session not empty: %+v", got)
	}
}

func TestSessions_AttachResume(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())

	res, err := s.AttachResume(context.Background(), sess.ID, domain.UploadedDocument{
		Data: []byte("Jane Doe\nEngineer"), MimeType: MimeText, FileName: "cv.txt",
	})
	if err != nil {
		t.Fatalf("AttachResume() error = %v", err)
	}
	got, _ := s.Get(context.Background(), sess.ID)
	if got.ResumeContext != "Jane Doe\nEngineer" || got.ContextFileName != "cv.txt" {
		t.Errorf("session = %+v", got)
	}
	if got.ContextTokens != res.EstimatedTokenCount {
		t.Errorf("ContextTokens = %d, want %d", got.ContextTokens, res.EstimatedTokenCount)
	}
}

func TestSessions_AttachResume_Errors(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())

	_, err := s.AttachResume(context.Background(), uuid.New(), domain.UploadedDocument{Data: []byte("x"), FileName: "a.txt"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: err = %v", err)
	}

	_, err = s.AttachResume(context.Background(), sess.ID, domain.UploadedDocument{Data: []byte("x"), MimeType: "image/png", FileName: "a.png"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unsupported: err = %v", err)
	}
	if got, _ := s.Get(context.Background(), sess.ID); got.ResumeContext != "" {
		t.Error("context stored for a failed extraction")
	}
}

func TestSessions_PreviewResume(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())

	result, err := s.PreviewResume(context.Background(), sess.ID, map[string]interface{}{"latex": `\documentclass{article}`})
	if err != nil {
		t.Fatalf("PreviewResume() error = %v", err)
	}
	if result != "Preview updated successfully" {
		t.Errorf("result = %q", result)
	}
	got, _ := s.Get(context.Background(), sess.ID)
	if got.LatexContent != `\documentclass{article}` {
		t.Errorf("LatexContent = %q", got.LatexContent)
	}
	if want := s.now().UnixMilli(); got.ResumeLastUpdated != want {
		t.Errorf("ResumeLastUpdated = %d, want %d", got.ResumeLastUpdated, want)
	}
	state := got.AgentState()
	if state.LatexContent != got.LatexContent || state.ResumeLastUpdated != got.ResumeLastUpdated {
		t.Errorf("AgentState() = %+v", state)
	}
}

func TestSessions_PreviewResume_Invalid(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())

	for _, payload := range []map[string]interface{}{
		{},
		{"latex": ""},
		{"latex": 3.0},
	} {
		_, err := s.PreviewResume(context.Background(), sess.ID, payload)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("PreviewResume(%v) error = %v, want *ValidationError", payload, err)
		}
	}
	if got, _ := s.Get(context.Background(), sess.ID); got.LatexContent != "" {
		t.Error("invalid payload changed the session")
	}
}

func TestSessions_PreviewResume_UnknownSession(t *testing.T) {
	s := newTestSessions(newMapStore())
	_, err := s.PreviewResume(context.Background(), uuid.New(), map[string]interface{}{"latex": "x"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessions_StoreFailure(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())
	store.saveErr = errors.New("connection reset")

	if _, err := s.PreviewResume(context.Background(), sess.ID, map[string]interface{}{"latex": "x"}); err == nil {
		t.Error("PreviewResume: expected store error")
	}
	_, err := s.AttachResume(context.Background(), sess.ID, domain.UploadedDocument{Data: []byte("x"), FileName: "a.txt"})
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AttachResume: err = %v", err)
	}
}

func TestSessions_PreviewResume_StateFromServer(t *testing.T) {
	store := newMapStore()
	s := newTestSessions(store)
	sess, _ := s.Start(context.Background())

	payload := map[string]interface{}{
		"latex":             "x",
		"resumeLastUpdated": "yesterday",
		"latexContent":      42.0,
	}
	if _, err := s.PreviewResume(context.Background(), sess.ID, payload); err != nil {
		t.Fatalf("PreviewResume() error = %v", err)
	}
	got, _ := s.Get(context.Background(), sess.ID)
	want := model.AgentState{LatexContent: "x", ResumeLastUpdated: s.now().UnixMilli()}
	if state := got.AgentState(); state != want {
		t.Errorf("AgentState() = %+v, want %+v", state, want)
	}
}
