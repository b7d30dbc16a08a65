package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drywaters/learncards/internal/extractor"
	"github.com/drywaters/learncards/internal/middleware"
	"github.com/drywaters/learncards/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidBody   = "Invalid request format"
	msgURLRequired   = "URL is required"
	msgURLInvalid    = "URL must be a valid http or https URL"
	msgFetchFailed   = "Could not fetch the URL. Please check if it's valid and accessible."
	msgEmptyContent  = "Could not extract content from URL"
	msgProcessFailed = "An error occurred while processing the request"

	// A {"url": ...} body never needs more than this
	maxRequestBytes = 8 << 10
)

// ContentExtractor reduces a web page to plain text
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// CardGenerator produces a summary and flashcards from plain text
type CardGenerator interface {
	Generate(ctx context.Context, content string) (*model.GenerationResult, error)
}

// ProcessHandler turns a URL into a summary and flashcards
type ProcessHandler struct {
	extractor ContentExtractor
	generator CardGenerator
	validator *validator.Validate
}

// NewProcessHandler creates a new ProcessHandler
func NewProcessHandler(ext ContentExtractor, gen CardGenerator) *ProcessHandler {
	return &ProcessHandler{
		extractor: ext,
		generator: gen,
		validator: validator.New(),
	}
}

// Process handles POST /api/process
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slog.With("trace_id", middleware.TraceID(ctx))

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req model.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("invalid request body", "error", err)
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if msg := h.validate(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	log.Info("processing URL", "url", req.URL)

	content, err := h.extractor.Extract(ctx, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrInvalidURL):
			log.Warn("rejected URL", "url", req.URL, "error", err)
			respondError(w, http.StatusBadRequest, msgURLInvalid)
		case errors.Is(err, extractor.ErrFetch):
			log.Error("error fetching URL", "url", req.URL, "error", err)
			respondError(w, http.StatusBadRequest, msgFetchFailed)
		case errors.Is(err, extractor.ErrEmptyContent):
			log.Warn("no content extracted", "url", req.URL)
			respondError(w, http.StatusBadRequest, msgEmptyContent)
		default:
			log.Error("error extracting content", "url", req.URL, "error", err)
			respondError(w, http.StatusInternalServerError, msgProcessFailed)
		}
		return
	}
	if strings.TrimSpace(content) == "" {
		respondError(w, http.StatusBadRequest, msgEmptyContent)
		return
	}

	result, err := h.generator.Generate(ctx, content)
	if err != nil {
		log.Error("error generating cards", "url", req.URL, "error", err)
		respondError(w, http.StatusInternalServerError, msgProcessFailed)
		return
	}
	if result == nil {
		log.Error("generator returned no result", "url", req.URL)
		respondError(w, http.StatusInternalServerError, msgProcessFailed)
		return
	}

	log.Info("generated cards", "url", req.URL, "count", len(result.Cards))
	respondJSON(w, http.StatusOK, result)
}

// validate returns a user-facing message for the first failed rule, or ""
func (h *ProcessHandler) validate(req model.ProcessRequest) string {
	err := h.validator.Struct(req)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		return msgURLRequired
	}
	return msgURLInvalid
}
