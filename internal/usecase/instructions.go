package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"resume-builder/internal/domain"
)

const (
	ResumeContextStart = "---UPLOADED RESUME START---"
	ResumeContextEnd   = "---UPLOADED RESUME END---"
)

// ResumeTemplate is the LaTeX skeleton the agent fills in. Fields to replace
// are written as <<<FIELD NAME>>>.
//
//go:embed templates/resume_template.tex
var ResumeTemplate string

//go:embed templates/instructions.tmpl
var instructionsSrc string

var instructionsTpl = template.Must(template.New("instructions").Parse(instructionsSrc))

// Instructions renders the agent's system instructions for a session,
// embedding the uploaded resume text when there is one.
func Instructions(s *domain.Session) (string, error) {
	data := struct {
		ResumeContext string
		FileName      string
		Start, End    string
		Template      string
	}{Start: ResumeContextStart, End: ResumeContextEnd, Template: ResumeTemplate}
	if s != nil {
		data.ResumeContext = strings.TrimSpace(s.ResumeContext)
		data.FileName = s.ContextFileName
	}

	var buf bytes.Buffer
	if err := instructionsTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render instructions: %w", err)
	}
	return buf.String(), nil
}
