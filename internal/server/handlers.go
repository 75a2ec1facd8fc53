package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/galacticode/galacticode/internal/session"
)

// maxBodyBytes bounds request bodies and websocket messages. Any answer that
// fits is accepted and judged.
const maxBodyBytes = 1 << 20

type answerRequest struct {
	Answer *string `json:"answer"`
}

func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, viewCatalog(s.sessions.Catalog()))
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Start(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	JSON(w, http.StatusCreated, viewSession(sess.Snapshot()))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, viewSession(sess.Snapshot()))
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req answerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Answer == nil {
		Error(w, http.StatusBadRequest, "answer is required")
		return
	}

	res, err := sess.Submit(r.Context(), *req.Answer)
	if err != nil {
		writeErr(w, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	res, err := sess.Advance(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	JSON(w, http.StatusOK, viewAdvance(res))
}

// lookup resolves the {id} route parameter, writing a 404 when the session
// is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	return sess, true
}
