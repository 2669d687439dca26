package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"resume-builder/internal/domain"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"

	// DocxCollaborator is the package named in the DOCX placeholder text.
	DocxCollaborator = "docconv"
)

// Format is the resolved kind of an uploaded document.
type Format int

const (
	FormatUnsupported Format = iota
	FormatPDF
	FormatDOCX
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatText:
		return "txt"
	default:
		return "unsupported"
	}
}

// Classify resolves the document format from the declared MIME type first
// and the file extension second. PDF wins over DOCX, DOCX over text.
func Classify(mimeType, fileName string) Format {
	name := strings.ToLower(fileName)
	switch {
	case mimeType == MimePDF || strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	case mimeType == MimeDOCX || strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	case mimeType == MimeText || strings.HasSuffix(name, ".txt"):
		return FormatText
	default:
		return FormatUnsupported
	}
}

// PDFDocument is an opened, paginated PDF. Pages are numbered from 1.
type PDFDocument interface {
	NumPages() int
	PageFragments(ctx context.Context, page int) ([]string, error)
}

// PDFOpener loads a PDF from its raw bytes.
type PDFOpener interface {
	Open(data []byte) (PDFDocument, error)
}

// DocxTextExtractor returns the raw text of a DOCX file.
type DocxTextExtractor interface {
	ExtractRawText(ctx context.Context, data []byte) (string, error)
}

// Extractor converts uploads into plain text. The DOCX extractor is
// optional; without it DOCX uploads yield a placeholder.
type Extractor struct {
	pdf    PDFOpener
	docx   DocxTextExtractor
	logger *slog.Logger
}

func NewExtractor(pdf PDFOpener, docx DocxTextExtractor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{pdf: pdf, docx: docx, logger: logger}
}

// Extract dispatches on the document format and returns the text with its
// token estimate.
func (e *Extractor) Extract(ctx context.Context, doc domain.UploadedDocument) (domain.ExtractionResult, error) {
	format := Classify(doc.MimeType, doc.FileName)

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = e.extractPDF(ctx, doc.Data)
	case FormatDOCX:
		text, err = e.extractDOCX(ctx, doc)
	case FormatText:
		text = decodeText(doc.Data)
	default:
		err = &UnsupportedFormatError{MimeType: doc.MimeType}
	}
	if err != nil {
		if format == FormatUnsupported {
			e.logger.Warn("unsupported resume file", "file", doc.FileName, "mime", doc.MimeType)
		} else {
			e.logger.Error("error parsing resume file", "file", doc.FileName, "mime", doc.MimeType, "error", err)
		}
		return domain.ExtractionResult{}, err
	}

	return domain.ExtractionResult{Text: text, EstimatedTokenCount: EstimateTokenCount(text)}, nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	if e.pdf == nil {
		return "", &ExtractionError{Format: FormatPDF, Err: fmt.Errorf("no PDF parser configured")}
	}
	doc, err := e.pdf.Open(data)
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Err: err}
	}

	var b strings.Builder
	n := doc.NumPages()
	for i := 1; i <= n; i++ {
		frags, err := doc.PageFragments(ctx, i)
		if err != nil {
			return "", &ExtractionError{Format: FormatPDF, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		b.WriteString(strings.Join(frags, " "))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func (e *Extractor) extractDOCX(ctx context.Context, doc domain.UploadedDocument) (string, error) {
	if e.docx == nil {
		e.logger.Warn("DOCX text extraction unavailable, returning placeholder",
			"file", doc.FileName, "package", DocxCollaborator)
		return DocxPlaceholder(doc.FileName), nil
	}
	text, err := e.docx.ExtractRawText(ctx, doc.Data)
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Err: err}
	}
	return text, nil
}

// DocxPlaceholder is the text returned for a DOCX upload when no DOCX
// extractor is available.
func DocxPlaceholder(fileName string) string {
	return fmt.Sprintf("[DOCX file uploaded: %s. Install '%s' package for full text extraction]", fileName, DocxCollaborator)
}

func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// EstimateTokenCount approximates one token per four characters, rounding
// up. Characters are counted as UTF-16 code units, as the browser does.
func EstimateTokenCount(text string) int {
	n := 0
	for _, r := range text {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return (n + 3) / 4
}
