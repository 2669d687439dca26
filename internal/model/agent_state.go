package model

// AgentState mirrors the state shared with the resume agent.
type AgentState struct {
	ResumeLastUpdated int64  `json:"resumeLastUpdated,omitempty"`
	LatexContent      string `json:"latexContent,omitempty"`
}
