package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

var errMissingQuery = errors.New("user_query is required")

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, welcomeResponse{Message: WelcomeMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, healthResponse{Status: "ok"})
}

// handleQuery runs one turn. Failures are reported in the body with a 200
// status.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	text := strings.TrimSpace(q.Get("user_query"))
	if text == "" {
		s.writeError(w, r, errMissingQuery)
		return
	}

	reset := false
	if raw := strings.TrimSpace(q.Get("reset_memory")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, errors.New("reset_memory must be a boolean"))
			return
		}
		reset = v
	}

	sessionID := strings.TrimSpace(q.Get("session_id"))
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.Header.Get("X-Session-ID"))
	}
	if sessionID == "" {
		sessionID = s.cfg.DefaultSessionID
	}

	out, err := s.runner.HandleMessage(r.Context(), contractx.TurnRequest{
		SessionID: sessionID,
		Text:      text,
		Reset:     reset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, queryResponse{
		Status:    statusSuccess,
		Query:     text,
		Response:  out.Reply,
		SessionID: out.SessionID,
		Rounds:    out.Rounds,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("query failed")
	writeJSON(w, queryResponse{Status: statusError, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
