package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"labta/internal/classifier"
	"labta/internal/hint"
	"labta/internal/investigation"
	"labta/internal/knowledge"
	"labta/internal/problem"
	"labta/internal/session"
)

// server holds every dependency the HTTP handlers need. It is a thin
// adapter: request parsing and JSON encoding only, no business logic of
// its own (spec.md §1 "the HTTP transport... external collaborator").
type server struct {
	log           *zap.Logger
	problems      *problem.Catalog
	sessions      *session.Store
	knowledge     *knowledge.Watcher
	pipeline      *investigation.Pipeline
	classifierCfg classifier.Config
	hint          *hint.Orchestrator
	wallClock     time.Duration
}

func (s *server) routes(r chi.Router) {
	r.Get("/", s.handleHealth)
	r.Get("/problems", s.handleProblems)
	r.Get("/sessions", s.handleSessions)
	r.Get("/draft/{user_id}/{problem_id}", s.handleDraft)
	r.Post("/save", s.handleSave)
	r.Post("/submit", s.handleSubmit)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "online"})
}

func (s *server) handleProblems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.problems.Summaries())
}

func (s *server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.All())
}

type draftResponse struct {
	DraftCode *string `json:"draft_code"`
	Attempts  int     `json:"attempts"`
	LastError *string `json:"last_error"`
}

func (s *server) handleDraft(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	problemID := chi.URLParam(r, "problem_id")

	sess := s.sessions.Get(userID, problemID)
	resp := draftResponse{DraftCode: sess.DraftCode, Attempts: sess.Attempt}
	if sess.LastError != nil {
		v := string(*sess.LastError)
		resp.LastError = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

type saveRequest struct {
	UserID    string `json:"user_id"`
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
		return
	}

	if err := s.sessions.SaveDraft(req.UserID, req.ProblemID, req.Code); err != nil {
		s.log.Error("saving draft failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "could not save draft"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "SAVED",
		"message": "Code saved successfully.",
	})
}

type submitRequest struct {
	UserID    string `json:"user_id"`
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

type submitResponse struct {
	Status         string   `json:"status"`
	AgentLogs      []string `json:"agent_logs"`
	SystemMessages []string `json:"system_messages"`
	Hint           string   `json:"hint"`
	Citation       string   `json:"citation"`
	Patch          *string  `json:"patch"`
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
		return
	}

	prob, ok := s.problems.Get(req.ProblemID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Problem ID not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.wallClock*time.Duration(len(prob.HiddenCases)+1))
	defer cancel()

	result := s.pipeline.Investigate(ctx, req.Code, req.Language, prob)

	match := classifier.Analyze(result.Logs, s.knowledge.Get().Catalog())
	finalStatus, finalEvidence, overrode := classifier.Override(result.Status, result.Evidence, match, s.classifierCfg)

	logs := result.Logs
	if overrode {
		logs = append(logs, fmt.Sprintf(
			"[Agent Override] Logic Error masked by Critical Warning: %s", finalStatus))
	}

	bundle, err := s.hint.Submit(ctx, hint.Input{
		UserID:     req.UserID,
		ProblemID:  req.ProblemID,
		Language:   req.Language,
		Source:     req.Code,
		Status:     finalStatus,
		Evidence:   finalEvidence,
		Logs:       logs,
		Overridden: overrode,
	})
	if err != nil {
		s.log.Error("hint orchestration failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "could not process submission"})
		return
	}

	resp := submitResponse{
		Status:         string(bundle.Status),
		AgentLogs:      bundle.Logs,
		SystemMessages: bundle.SystemMessages,
		Hint:           bundle.Hint,
		Citation:       bundle.Citation,
	}
	if bundle.Patch != "" {
		resp.Patch = &bundle.Patch
	}
	writeJSON(w, http.StatusOK, resp)
}
