package infrastructure

import (
	"bytes"
	"context"
	"fmt"

	"resume-builder/internal/usecase"

	"code.sajari.com/docconv"
)

// DocxText extracts raw text from Word documents with docconv.
type DocxText struct{}

var _ usecase.DocxTextExtractor = DocxText{}

func NewDocxText() DocxText { return DocxText{} }

func (DocxText) ExtractRawText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return text, nil
}
