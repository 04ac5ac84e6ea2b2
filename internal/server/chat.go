package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// sessionCookie names the cookie carrying the opaque session id. The id is
// a server-generated reference into the session store, not a wire format
// clients should depend on.
const sessionCookie = "twentyq_session"

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"message required"}`, http.StatusBadRequest)
		return
	}

	sid := s.sessionID(w, r)

	reply, err := s.engine.HandleMessage(r.Context(), sid, req.Message)
	if err != nil {
		// Store failure — a programming or infrastructure defect, not part
		// of normal play. Provider errors never reach this branch.
		log.Error().Err(err).Str("session", sid).Msg("chat turn failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	log.Debug().Str("session", sid).Int("reply_len", len(reply)).Msg("chat turn")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Response: reply})
}

// sessionID returns the session id from the request cookie, minting and
// setting a fresh one if absent.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	sid := uuid.NewString()
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cookieMaxAge > 0 {
		cookie.MaxAge = int(s.cookieMaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
	return sid
}
