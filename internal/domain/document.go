package domain

// CompileRequest is the body accepted by the compile endpoint.
type CompileRequest struct {
	LatexContent string `json:"latexContent"`
}

// CompiledDocument is the binary result of a successful compile.
type CompiledDocument struct {
	Data        []byte
	ContentType string
	FileName    string
}

// UploadedDocument is a file handed to the extraction pipeline. MimeType is
// whatever the client declared and may be empty or wrong.
type UploadedDocument struct {
	Data     []byte
	MimeType string
	FileName string
}

// ExtractionResult is the plain text extracted from an upload.
type ExtractionResult struct {
	Text                string `json:"text"`
	EstimatedTokenCount int    `json:"estimatedTokenCount"`
}
