package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"resume-builder/internal/usecase"

	"github.com/ledongthuc/pdf"
)

// PDFReader opens PDF documents with github.com/ledongthuc/pdf.
type PDFReader struct{}

var _ usecase.PDFOpener = PDFReader{}

func NewPDFReader() PDFReader { return PDFReader{} }

// Open parses the document structure. The parser panics on some malformed
// inputs, so panics are turned into errors here and in PageFragments.
func (PDFReader) Open(data []byte) (doc usecase.PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &pdfDocument{r: r}, nil
}

type pdfDocument struct {
	r *pdf.Reader
}

func (d *pdfDocument) NumPages() int {
	return d.r.NumPage()
}

// PageFragments returns the text runs of a 1-indexed page in content
// stream order.
func (d *pdfDocument) PageFragments(ctx context.Context, page int) (frags []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			frags, err = nil, fmt.Errorf("page %d: malformed content: %v", page, r)
		}
	}()
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return groupFragments(p.Content().Text), nil
}

// groupFragments merges the per-glyph output of the parser into runs of
// text that share a font and a baseline. A new run starts on a font change,
// a baseline change, a backwards move or a horizontal gap wider than a
// fraction of the font size. Synthetic line breaks carry no position and
// are dropped.
func groupFragments(glyphs []pdf.Text) []string {
	var (
		out  []string
		cur  strings.Builder
		prev pdf.Text
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, g := range glyphs {
		// the parser emits a synthetic newline after TJ and T*; real
		// line changes already break the run by position
		if g.S == "\n" {
			continue
		}
		if cur.Len() > 0 && breaksRun(prev, g) {
			flush()
		}
		cur.WriteString(g.S)
		prev = g
	}
	flush()
	return out
}

func breaksRun(prev, next pdf.Text) bool {
	const (
		baselineTolerance = 0.5
		gapFactor         = 0.3
	)
	if prev.Font != next.Font || prev.FontSize != next.FontSize {
		return true
	}
	if math.Abs(prev.Y-next.Y) > baselineTolerance {
		return true
	}
	if next.X < prev.X-baselineTolerance {
		return true
	}
	gap := next.X - (prev.X + prev.W)
	return gap > gapFactor*math.Abs(next.FontSize)
}
