package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/ctxlog"
)

type apiError struct {
	Error       string                 `json:"error"`
	FieldErrors botconsole.FieldErrors `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type stateResponse struct {
	botconsole.Snapshot
	Events []botconsole.Event `json:"events"`
}

func (s *server) state(since int) stateResponse {
	return stateResponse{
		Snapshot: s.console.Snapshot(),
		Events:   s.console.Events().Since(since),
	}
}

func (s *server) writeState(w http.ResponseWriter, status int) {
	writeJSON(w, status, s.state(0))
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid since parameter")
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, s.state(since))
}

type updateFieldRequest struct {
	Field botconsole.Field `json:"field"`
	Value string           `json:"value"`
}

func (s *server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var req updateFieldRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.console.UpdateField(req.Field, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, "unknown form field")
		return
	}
	s.writeState(w, http.StatusOK)
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.console.Clear()
	s.writeState(w, http.StatusOK)
}

func (s *server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	// A plan request runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(r.Context())

	err := s.console.GeneratePlan(ctx)
	switch {
	case err == nil:
		s.writeState(w, http.StatusOK)
	case errors.Is(err, botconsole.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Error:       "Please fill in all required fields",
			FieldErrors: s.console.Snapshot().FieldErrors,
		})
	case errors.Is(err, botconsole.ErrGenerationInProgress):
		writeError(w, http.StatusConflict, "plan generation already in progress")
	default:
		ctxlog.From(ctx).Error("plan generation failed", slog.Any("error", err))
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

type viewModeRequest struct {
	Mode botconsole.ViewMode `json:"mode"`
}

func (s *server) handleViewMode(w http.ResponseWriter, r *http.Request) {
	var req viewModeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.console.SetViewMode(req.Mode); err != nil {
		writeError(w, http.StatusBadRequest, "view mode must be text or json")
		return
	}
	s.writeState(w, http.StatusOK)
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (s *server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.console.SetConfirmed(req.Confirmed); err != nil {
		writeError(w, http.StatusConflict, "no plan to confirm")
		return
	}
	s.writeState(w, http.StatusOK)
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.console.Start(); err != nil {
		writeError(w, http.StatusConflict, "start is not available")
		return
	}
	s.writeState(w, http.StatusOK)
}

func (s *server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.console.Pause(); err != nil {
		writeError(w, http.StatusConflict, "pause is not available")
		return
	}
	s.writeState(w, http.StatusOK)
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.console.Controls().CanStop {
		writeError(w, http.StatusConflict, "stop is not available")
		return
	}
	s.console.Stop()
	s.writeState(w, http.StatusOK)
}
