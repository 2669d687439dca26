package http

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	msgPDFNotFound    = "PDF not found. Please generate it first."
	msgFileRequired   = "file is required"
	msgInvalidSession = "invalid session id"
	msgInvalidPayload = "invalid payload"
	msgLatexNotString = "LaTeX content must be a string"
)

// DocumentStore holds the last compiled PDF. Read returns an error matching
// fs.ErrNotExist when nothing has been stored.
type DocumentStore interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

type Handler struct {
	compiler  *usecase.Compiler
	extractor *usecase.Extractor
	sessions  *usecase.Sessions
	documents DocumentStore
	persist   bool
	logger    *slog.Logger
}

// Options configures the optional parts of the handler.
type Options struct {
	Documents DocumentStore
	// PersistCompiled also writes every compiled PDF to Documents.
	PersistCompiled bool
	Logger          *slog.Logger
}

func NewHandler(c *usecase.Compiler, e *usecase.Extractor, s *usecase.Sessions, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		compiler:  c,
		extractor: e,
		sessions:  s,
		documents: opts.Documents,
		persist:   opts.PersistCompiled && opts.Documents != nil,
		logger:    logger,
	}
}

// Register mounts all routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", h.Health)

	api := r.Group("/api")
	api.Post("/compile-latex", h.CompileLatex)
	api.Get("/pdf", h.ServePDF)
	api.Post("/extract", h.Extract)

	api.Post("/sessions", h.CreateSession)
	api.Get("/sessions/:id", h.GetSession)
	api.Post("/sessions/:id/context", h.AttachContext)
	api.Post("/sessions/:id/preview", h.PreviewResume)
	api.Get("/sessions/:id/instructions", h.Instructions)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// CompileLatex compiles the posted markup and answers with the PDF bytes.
func (h *Handler) CompileLatex(c *fiber.Ctx) error {
	var req domain.CompileRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "latexContent" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgLatexNotString})
		}
		h.logger.Error("error compiling LaTeX", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   usecase.ErrInternal.Error(),
			"details": err.Error(),
		})
	}

	doc, err := h.compiler.Compile(c.UserContext(), req.LatexContent)
	if err != nil {
		return compileError(c, err)
	}

	if h.persist {
		if err := h.documents.Write(doc.Data); err != nil {
			h.logger.Warn("failed to persist compiled PDF", "error", err)
		}
	}
	return sendPDF(c, doc.Data)
}

// ServePDF serves the last persisted PDF.
func (h *Handler) ServePDF(c *fiber.Ctx) error {
	if h.documents == nil {
		return sendText(c, fiber.StatusNotFound, msgPDFNotFound)
	}
	data, err := h.documents.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sendText(c, fiber.StatusNotFound, msgPDFNotFound)
	case err != nil:
		h.logger.Error("error reading PDF", "error", err)
		return sendText(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
	return sendPDF(c, data)
}

// Extract returns the plain text of an uploaded resume.
func (h *Handler) Extract(c *fiber.Ctx) error {
	doc, err := uploadedFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgFileRequired})
	}
	res, err := h.extractor.Extract(c.UserContext(), doc)
	if err != nil {
		return extractError(c, err)
	}
	return c.JSON(extractResponse(doc, res))
}

func (h *Handler) CreateSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Start(c.UserContext())
	if err != nil {
		h.logger.Error("create session failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": usecase.ErrInternal.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sessionId": sess.ID.String()})
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidSession})
	}
	sess, err := h.sessions.Get(c.UserContext(), id)
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(sess)
}

// AttachContext extracts an uploaded resume into the session context.
func (h *Handler) AttachContext(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidSession})
	}
	doc, err := uploadedFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgFileRequired})
	}
	res, err := h.sessions.AttachResume(c.UserContext(), id, doc)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			return h.sessionError(c, err)
		}
		return extractError(c, err)
	}
	return c.JSON(extractResponse(doc, res))
}

// PreviewResume runs the previewResume action for the session.
func (h *Handler) PreviewResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidSession})
	}
	var payload map[string]interface{}
	if err := c.App().Config().JSONDecoder(c.Body(), &payload); err != nil || payload == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidPayload})
	}

	result, err := h.sessions.PreviewResume(c.UserContext(), id, payload)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidPayload, "issues": verr.Issues})
		}
		return h.sessionError(c, err)
	}
	return c.JSON(fiber.Map{"result": result})
}

func (h *Handler) Instructions(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidSession})
	}
	sess, err := h.sessions.Get(c.UserContext(), id)
	if err != nil {
		return h.sessionError(c, err)
	}
	text, err := usecase.Instructions(sess)
	if err != nil {
		h.logger.Error("render instructions failed", "session", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": usecase.ErrInternal.Error()})
	}
	return sendText(c, fiber.StatusOK, text)
}

func (h *Handler) sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecase.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": usecase.ErrSessionNotFound.Error()})
	}
	h.logger.Error("session request failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": usecase.ErrInternal.Error()})
}

func compileError(c *fiber.Ctx, err error) error {
	var ce *usecase.CompileError
	switch {
	case errors.Is(err, usecase.ErrLatexRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": usecase.ErrLatexRequired.Error()})
	case errors.As(err, &ce):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   ce.Message(),
			"details": ce.Detail(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   usecase.ErrInternal.Error(),
			"details": err.Error(),
		})
	}
}

func extractError(c *fiber.Ctx, err error) error {
	var ee *usecase.ExtractionError
	switch {
	case errors.Is(err, usecase.ErrUnsupportedFormat):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ee):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   usecase.ErrExtraction.Error(),
			"details": ee.Detail(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   usecase.ErrInternal.Error(),
			"details": err.Error(),
		})
	}
}

func uploadedFile(c *fiber.Ctx) (domain.UploadedDocument, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.UploadedDocument{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.UploadedDocument{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedDocument{}, err
	}
	return domain.UploadedDocument{
		Data:     data,
		MimeType: fh.Header.Get(fiber.HeaderContentType),
		FileName: fh.Filename,
	}, nil
}

func extractResponse(doc domain.UploadedDocument, res domain.ExtractionResult) fiber.Map {
	return fiber.Map{
		"text":                res.Text,
		"estimatedTokenCount": res.EstimatedTokenCount,
		"fileName":            doc.FileName,
		"format":              usecase.Classify(doc.MimeType, doc.FileName).String(),
	}
}

func sendPDF(c *fiber.Ctx, data []byte) error {
	c.Set(fiber.HeaderContentType, usecase.PDFContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+usecase.PDFFileName+`"`)
	return c.Status(fiber.StatusOK).Send(data)
}

func sendText(c *fiber.Ctx, status int, text string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(text)
}
