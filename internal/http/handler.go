package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

type Handler struct {
	ragService *rag.Service
	logger     *zap.Logger
}

func NewHandler(ragService *rag.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ragService: ragService, logger: logger}
}

type failedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type indexResponse struct {
	Succeeded int          `json:"succeeded"`
	Failed    []failedItem `json:"failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req rag.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid json body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.ragService.Answer(ctx, req.Question)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req rag.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid json body"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.ragService.Query(ctx, req.Query, req.TopK)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	if resp.Matches == nil {
		resp.Matches = []rag.Match{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// IndexDocuments upserts the posted documents. Per-document failures are
// reported in the body; the status is 200 unless the request itself is bad.
func (h *Handler) IndexDocuments(w http.ResponseWriter, r *http.Request) {
	var req rag.IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid json body"))
		return
	}
	if len(req.Documents) == 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("documents are required"))
		return
	}

	report, err := h.ragService.IndexDocuments(r.Context(), req.Documents, nil)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	resp := indexResponse{Succeeded: report.Succeeded(), Failed: []failedItem{}}
	for _, f := range report.Failed() {
		resp.Failed = append(resp.Failed, failedItem{ID: f.ID, Error: f.Err.Error()})
	}

	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, rag.ErrEmptyQuestion), errors.Is(err, rag.ErrEmptyText):
		return http.StatusBadRequest
	case rag.IsUpstream(err), rag.IsMalformed(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
