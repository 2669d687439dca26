package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// PreviewUpdated is the action result reported back to the agent.
const PreviewUpdated = "Preview updated successfully"

// SessionStore persists agent sessions.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	SaveContext(ctx context.Context, id uuid.UUID, fileName, text string, tokens int, at time.Time) error
	SavePreview(ctx context.Context, id uuid.UUID, latex string, lastUpdated int64, at time.Time) error
}

// Sessions ties uploads and preview actions to a session.
type Sessions struct {
	store     SessionStore
	extractor *Extractor
	logger    *slog.Logger
	now       func() time.Time
}

func NewSessions(store SessionStore, extractor *Extractor, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{store: store, extractor: extractor, logger: logger, now: time.Now}
}

// Start creates an empty session.
func (s *Sessions) Start(ctx context.Context) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session started", "session", sess.ID)
	return sess, nil
}

func (s *Sessions) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// AttachResume extracts an uploaded resume and stores its text as the
// session's context for the agent.
func (s *Sessions) AttachResume(ctx context.Context, id uuid.UUID, doc domain.UploadedDocument) (domain.ExtractionResult, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return domain.ExtractionResult{}, err
	}
	res, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	if err := s.store.SaveContext(ctx, id, doc.FileName, res.Text, res.EstimatedTokenCount, s.now().UTC()); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("save resume context: %w", err)
	}
	s.logger.Info("resume context attached", "session", id, "file", doc.FileName, "tokens", res.EstimatedTokenCount)
	return res, nil
}

// PreviewResume handles the previewResume action: it validates the
// payload and stores the markup as the session's preview state. Fields
// other than latex are ignored.
func (s *Sessions) PreviewResume(ctx context.Context, id uuid.UUID, payload map[string]interface{}) (string, error) {
	if err := model.ValidateMap(model.PreviewActionSchema, payload); err != nil {
		return "", err
	}
	latex, _ := payload["latex"].(string)

	now := s.now().UTC()
	state := model.AgentState{LatexContent: latex, ResumeLastUpdated: now.UnixMilli()}
	if err := s.store.SavePreview(ctx, id, state.LatexContent, state.ResumeLastUpdated, now); err != nil {
		return "", err
	}
	s.logger.Info("preview updated", "session", id, "bytes", len(latex))
	return PreviewUpdated, nil
}
