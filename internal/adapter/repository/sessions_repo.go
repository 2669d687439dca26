package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SessionsRepo stores sessions in the resume_sessions table.
type SessionsRepo struct {
	pool *pgxpool.Pool
}

func NewSessionsRepo(pool *pgxpool.Pool) *SessionsRepo {
	return &SessionsRepo{pool: pool}
}

func (r *SessionsRepo) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO resume_sessions (id, resume_context, context_file_name, context_tokens, latex_content, resume_last_updated, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.ResumeContext, s.ContextFileName, s.ContextTokens, s.LatexContent, s.ResumeLastUpdated, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

func (r *SessionsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s := &domain.Session{ID: id}
	err := r.pool.QueryRow(ctx, `SELECT resume_context, context_file_name, context_tokens, latex_content, resume_last_updated, created_at, updated_at
		FROM resume_sessions WHERE id = $1`, id).
		Scan(&s.ResumeContext, &s.ContextFileName, &s.ContextTokens, &s.LatexContent, &s.ResumeLastUpdated, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session %s: %w", id, err)
	}
	return s, nil
}

func (r *SessionsRepo) SaveContext(ctx context.Context, id uuid.UUID, fileName, text string, tokens int, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resume_sessions SET resume_context = $2, context_file_name = $3, context_tokens = $4, updated_at = $5 WHERE id = $1`,
		id, text, fileName, tokens, at)
	if err != nil {
		return fmt.Errorf("update session %s context: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

func (r *SessionsRepo) SavePreview(ctx context.Context, id uuid.UUID, latex string, lastUpdated int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resume_sessions SET latex_content = $2, resume_last_updated = $3, updated_at = $4 WHERE id = $1`,
		id, latex, lastUpdated, at)
	if err != nil {
		return fmt.Errorf("update session %s preview: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}
