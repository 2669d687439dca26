package domain

import (
	"time"

	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// Session is the state shared between the chat agent and the preview pane.
type Session struct {
	ID                uuid.UUID `json:"id"`
	ResumeContext     string    `json:"resumeContext"`
	ContextFileName   string    `json:"contextFileName,omitempty"`
	ContextTokens     int       `json:"contextTokens"`
	LatexContent      string    `json:"latexContent"`
	ResumeLastUpdated int64     `json:"resumeLastUpdated,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AgentState returns the subset of the session the agent runtime syncs.
func (s *Session) AgentState() model.AgentState {
	return model.AgentState{LatexContent: s.LatexContent, ResumeLastUpdated: s.ResumeLastUpdated}
}
