package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/voice"
)

const maxBodyBytes = 1 << 20

type executeRequest struct {
	App    *string `json:"app"`
	Action *string `json:"action"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": HealthMessage})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var body executeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if body.App == nil || strings.TrimSpace(*body.App) == "" {
		s.errorResponse(w, http.StatusBadRequest, "'app' field is required in the request body.")
		return
	}

	req := agent.Request{App: *body.App}
	if body.Action != nil {
		req.Action = *body.Action
	}

	res, err := s.exec.Execute(r.Context(), req)
	if err != nil {
		s.errorResponse(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}
	p, err := voice.ParseWebhook(raw)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.voice.Dispatch(r.Context(), p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, voice.ErrNoStructuredData) {
			status = http.StatusBadRequest
		}
		s.errorResponse(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// statusFor maps pipeline error kinds to HTTP statuses.
func statusFor(err error) int {
	switch agent.KindOf(err) {
	case agent.KindNotFound:
		return http.StatusNotFound
	case agent.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	if status >= http.StatusInternalServerError {
		s.log.Error("HTTP error", "status", status, "detail", detail)
	} else {
		s.log.Warn("HTTP error", "status", status, "detail", detail)
	}
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
