package usecase

import (
	"context"
	"log/slog"

	"resume-builder/internal/domain"
	"resume-builder/pkg/latexonline"
)

const (
	PDFContentType = "application/pdf"
	PDFFileName    = "resume.pdf"
)

// CompileService is the external markup-to-PDF compiler.
type CompileService interface {
	Compile(ctx context.Context, text string) (*latexonline.Response, error)
}

// Compiler turns markup text into a PDF through the compile service. It
// keeps no state between calls.
type Compiler struct {
	service CompileService
	logger  *slog.Logger
}

func NewCompiler(s CompileService, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{service: s, logger: logger}
}

// Compile returns the compiled document or a *CompileError. Empty markup
// fails before any network call.
func (c *Compiler) Compile(ctx context.Context, markup string) (*domain.CompiledDocument, error) {
	if markup == "" {
		return nil, &CompileError{Kind: ErrLatexRequired}
	}

	resp, err := c.service.Compile(ctx, markup)
	if err != nil {
		c.logger.Error("compile request failed", "error", err)
		return nil, &CompileError{Kind: ErrInternal, detail: err.Error(), Err: err}
	}

	if !resp.OK() {
		detail := string(resp.Body)
		c.logger.Error("LaTeX compilation error", "status", resp.StatusCode, "detail", detail)
		return nil, &CompileError{Kind: ErrUpstreamCompile, StatusCode: resp.StatusCode, detail: detail}
	}

	c.logger.Debug("LaTeX compiled", "bytes", len(resp.Body))
	return &domain.CompiledDocument{
		Data:        resp.Body,
		ContentType: PDFContentType,
		FileName:    PDFFileName,
	}, nil
}
