package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thejatinbaghel/JobReady-AI/internal/export"
	"github.com/thejatinbaghel/JobReady-AI/internal/extract"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
)

// taskRequest is the body of POST /api/{tailor,enhance,predict}.
type taskRequest struct {
	CV   string `json:"cv"`
	Job  string `json:"job"`
	Text string `json:"text"` // enhance only
}

func (b taskRequest) analysisRequest(kind model.TaskKind) model.AnalysisRequest {
	if kind == model.TaskEnhance {
		return model.AnalysisRequest{Kind: kind, SourceText: b.Text}
	}
	return model.AnalysisRequest{Kind: kind, SourceText: b.CV, JobText: b.Job}
}

type outcomeResponse struct {
	Task         model.TaskKind      `json:"task"`
	Status       string              `json:"status"`
	Generation   uint64              `json:"generation"`
	Result       model.Result        `json:"result,omitempty"`
	DisplayScore *int                `json:"displayScore,omitempty"`
	Bullets      []string            `json:"bullets,omitempty"`
	Reason       model.FailureReason `json:"reason,omitempty"`
	Message      string              `json:"message,omitempty"`
}

func newOutcomeResponse(o model.Outcome) outcomeResponse {
	resp := outcomeResponse{
		Task:       o.Kind,
		Status:     o.Status.String(),
		Generation: o.Generation,
		Result:     o.Result,
		Reason:     o.Reason,
		Message:    o.Message(),
	}
	switch r := o.Result.(type) {
	case model.TailorResult:
		score := r.DisplayScore()
		resp.DisplayScore = &score
	case model.EnhanceResult:
		resp.Bullets = r.Bullets()
	}
	return resp
}

type slotResponse struct {
	Current     outcomeResponse  `json:"current"`
	LastSuccess *outcomeResponse `json:"lastSuccess,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// statusCode maps an applied outcome to an HTTP status.
func statusCode(o model.Outcome) int {
	if o.Status != model.StatusFailure {
		return http.StatusOK
	}
	if o.Reason == model.ReasonValidation {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// sessionID returns the caller's session ID, minting one when the header is
// absent or malformed. The ID is echoed back in the response.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(headerSessionID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(headerSessionID, id)
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleTask(kind model.TaskKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body taskRequest
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		orch := s.sessions.Get(sessionID(w, r))
		out, err := orch.Run(r.Context(), body.analysisRequest(kind))
		switch {
		case errors.Is(err, model.ErrSlotBusy):
			writeError(w, http.StatusConflict, "a request of this kind is already in progress")
			return
		case errors.Is(err, orchestrator.ErrAbandoned):
			writeError(w, http.StatusConflict, "request was cancelled")
			return
		case err != nil:
			s.logger.Error("run failed", "task", kind, "error", err, "request_id", RequestIDFromContext(r.Context()))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, statusCode(out), newOutcomeResponse(out))
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseTaskKind(chi.URLParam(r, "task"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	cancelled := false
	if orch, ok := s.sessions.Lookup(sessionID(w, r)); ok {
		cancelled = orch.Slot(kind).Cancel()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	resp := make(map[model.TaskKind]slotResponse, len(model.TaskKinds))
	orch, ok := s.sessions.Lookup(sessionID(w, r))

	for _, kind := range model.TaskKinds {
		if !ok {
			resp[kind] = slotResponse{Current: newOutcomeResponse(model.Outcome{Kind: kind})}
			continue
		}
		slot := orch.Slot(kind)
		sr := slotResponse{Current: newOutcomeResponse(slot.Snapshot())}
		if last, found := slot.LastSuccess(); found {
			lr := newOutcomeResponse(last)
			sr.LastSuccess = &lr
		}
		resp[kind] = sr
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	text, err := s.extractor.ExtractText(r.Context(), model.Document{Name: header.Filename, Data: data})
	if err != nil {
		s.logger.Warn("extraction failed", "file", header.Filename, "bytes", len(data), "error", err)
		if errors.Is(err, extract.ErrUnsupported) {
			writeError(w, http.StatusUnsupportedMediaType, "unsupported file type; upload a .txt, .pdf or .docx file")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "could not extract text from the file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleDownload serves the tailored application as a text file. The body
// may carry the CV and cover letter to export; an empty body exports the
// session's last successful tailor result.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body is too large")
		return
	}

	var res model.TailorResult
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &res); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	if strings.TrimSpace(res.TailoredCV) == "" && strings.TrimSpace(res.CoverLetter) == "" {
		orch, ok := s.sessions.Lookup(sessionID(w, r))
		if !ok {
			writeError(w, http.StatusNotFound, "nothing to download yet")
			return
		}
		last, found := orch.Slot(model.TaskTailor).LastSuccess()
		if !found {
			writeError(w, http.StatusNotFound, "nothing to download yet")
			return
		}
		res = last.Result.(model.TailorResult)
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, export.Application(res))
}
