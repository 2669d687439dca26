package usecase

import (
	"strings"
	"testing"

	"resume-builder/internal/domain"
)

func TestInstructions(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.Session
		want    []string
		absent  []string
	}{
		{
			name:    "no session",
			session: nil,
			want:    []string{"has not uploaded an existing resume", "Upload Resume"},
			absent:  []string{ResumeContextStart},
		},
		{
			name:    "blank context",
			session: &domain.Session{ResumeContext: "  \n "},
			want:    []string{"has not uploaded an existing resume"},
			absent:  []string{ResumeContextStart},
		},
		{
			name:    "uploaded resume",
			session: &domain.Session{ResumeContext: "\nJane Doe\nStaff Engineer at Acme\n", ContextFileName: "jane.pdf"},
			want: []string{
				"has uploaded their existing resume (jane.pdf)",
				ResumeContextStart + "\nJane Doe\nStaff Engineer at Acme\n" + ResumeContextEnd,
				"Preserve all factual information",
			},
			absent: []string{"has not uploaded"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Instructions(tt.session)
			if err != nil {
				t.Fatalf("Instructions() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("instructions missing %q", w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("instructions unexpectedly contain %q", a)
				}
			}
			if !strings.Contains(got, `\documentclass`) {
				t.Error("instructions missing the LaTeX generation rules")
			}
		})
	}
}

func TestInstructions_ResumeTemplate(t *testing.T) {
	got, err := Instructions(nil)
	if err != nil {
		t.Fatalf("Instructions() error = %v", err)
	}
	for _, w := range []string{
		`"context7" MCP server`,
		"### PROFESSIONAL LATEX TEMPLATE",
		"```latex\n%-------------------------\n% Professional Resume Template",
		`\documentclass[letterpaper,11pt]{article}`,
		"<<<FULL NAME>>>",
		"<<<TECHNOLOGIES LIST>>>",
		"\\end{document}\n```",
		"Replace ALL placeholders",
		"### TOOL USAGE PROTOCOL",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("instructions missing %q", w)
		}
	}
	if !strings.Contains(got, ResumeTemplate) {
		t.Error("instructions do not embed the full resume template")
	}
	if strings.Contains(got, `\\documentclass`) {
		t.Error("template commands are double escaped")
	}
}
