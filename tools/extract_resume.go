package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/infrastructure"

	flag "github.com/spf13/pflag"
)

func main() {
	var (
		file   = flag.StringP("file", "f", "", "resume file to extract (pdf, docx or txt)")
		mime   = flag.StringP("mime", "m", "", "declared MIME type; guessed from the extension when empty")
		noDocx = flag.Bool("no-docx", false, "run without the DOCX extractor")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: extract_resume --file <path> [--mime type] [--no-docx]")
		os.Exit(2)
	}
	b, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read file: %v\n", err)
		os.Exit(2)
	}

	var docx usecase.DocxTextExtractor
	if !*noDocx {
		docx = infrastructure.NewDocxText()
	}
	ex := usecase.NewExtractor(infrastructure.NewPDFReader(), docx, nil)

	doc := domain.UploadedDocument{Data: b, MimeType: *mime, FileName: filepath.Base(*file)}
	res, err := ex.Extract(context.Background(), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"fileName":            doc.FileName,
		"format":              usecase.Classify(doc.MimeType, doc.FileName).String(),
		"text":                res.Text,
		"estimatedTokenCount": res.EstimatedTokenCount,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
