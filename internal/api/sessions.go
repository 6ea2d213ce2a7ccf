package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
	"github.com/matzehuels/bubblepack/pkg/httputil"
	"github.com/matzehuels/bubblepack/pkg/session"
)

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID        string          `json:"id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Snapshot  engine.Snapshot `json:"snapshot"`

	// Deferred is set when a viewport change was recorded but not laid out
	// because a converge is running.
	Deferred bool `json:"deferred,omitempty"`
	// Finished reports whether a finish call ended a converge.
	Finished *bool `json:"finished,omitempty"`
}

func respond(w http.ResponseWriter, status int, sess *session.Session, mut func(*SessionResponse)) {
	resp := SessionResponse{
		ID:        sess.ID,
		ExpiresAt: sess.ExpiresAt,
		Snapshot:  sess.Engine.Snapshot(),
	}
	if mut != nil {
		mut(&resp)
	}
	httputil.WriteJSON(w, status, resp)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the {id} URL parameter to a live session.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		h(w, r, sess)
	}
}

// CreateSessionRequest is the body of POST /v1/sessions. Zero fields take
// the server's layout defaults.
type CreateSessionRequest struct {
	Count    *int             `json:"count,omitempty"`
	Groups   int              `json:"groups,omitempty"`
	Columns  int              `json:"columns,omitempty"`
	Range    *bubble.Range    `json:"range,omitempty"`
	Viewport *engine.Viewport `json:"viewport,omitempty"`
	Seed     uint64           `json:"seed,omitempty"`
	Mode     string           `json:"mode,omitempty"`
}

// options layers the request over base. A count below the default group
// count without explicit groups gets one group per circle.
func (req CreateSessionRequest) options(base []engine.Option, defaultGroups int) []engine.Option {
	opts := base
	if req.Count != nil {
		opts = append(opts, engine.WithCount(*req.Count))
		if req.Groups == 0 && *req.Count > 0 && *req.Count < defaultGroups {
			opts = append(opts, engine.WithGroups(*req.Count))
		}
	}
	if req.Groups != 0 {
		opts = append(opts, engine.WithGroups(req.Groups))
	}
	if req.Columns != 0 {
		opts = append(opts, engine.WithColumns(req.Columns))
	}
	if req.Range != nil {
		opts = append(opts, engine.WithRange(*req.Range))
	}
	if req.Viewport != nil {
		opts = append(opts, engine.WithViewport(*req.Viewport))
	}
	if req.Seed != 0 {
		opts = append(opts, engine.WithSeed(req.Seed))
	}
	return opts
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode := engine.Clustered
	if req.Mode != "" {
		m, err := engine.ParseMode(req.Mode)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if m == engine.Converging {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidTransition, "a session cannot start converging"))
			return
		}
		mode = m
	}

	opts := req.options(s.layout.EngineOptions(), s.layout.Groups)
	opts = append(opts, engine.WithLogger(s.logger))
	e, err := engine.New(opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if mode == engine.Grouped {
		if err := e.EnterGrouped(); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	sess := session.New(e, s.srv.SessionTTL.Duration)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("session created", "session", sess.ID, "mode", mode)
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	respond(w, http.StatusCreated, sess, nil)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	respond(w, http.StatusOK, sess, nil)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Mode transitions
// =============================================================================

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Engine.EnterGrouped(); err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, sess, nil)
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.Engine.EnterClustered()
	respond(w, http.StatusOK, sess, nil)
}

// handleConverge begins a converge and arms the fallback timer. The client
// ends the converge early with POST .../finish once its animation is done.
func (s *Server) handleConverge(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	e := sess.Engine
	gen, err := e.BeginConverge()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	go func() {
		finished, err := e.AwaitConverge(s.baseCtx, gen, nil, 0)
		if err != nil {
			return
		}
		if finished {
			s.logger.Debug("converge finished by fallback", "session", sess.ID, "generation", gen)
		}
	}()
	respond(w, http.StatusAccepted, sess, nil)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	finished := sess.Engine.FinishConverge()
	respond(w, http.StatusOK, sess, func(resp *SessionResponse) { resp.Finished = &finished })
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Engine.Relayout(); err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, sess, nil)
}

// =============================================================================
// Inputs
// =============================================================================

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v := sess.Engine.Viewport()
	if !s.decode(w, r, &v) {
		return
	}
	err := sess.Engine.Recompute(v)
	switch {
	case errors.Is(err, errors.ErrCodeConverging):
		respond(w, http.StatusAccepted, sess, func(resp *SessionResponse) { resp.Deferred = true })
	case err != nil:
		s.fail(w, r, err)
	default:
		respond(w, http.StatusOK, sess, nil)
	}
}

// RangeRequest is the body of POST .../range. Edited names the side the user
// moved ("min" or "max"); the other side follows it when they cross.
type RangeRequest struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Edited string  `json:"edited,omitempty"`
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req RangeRequest
	if !s.decode(w, r, &req) {
		return
	}
	var side bubble.Side
	switch req.Edited {
	case "", "min":
		side = bubble.SideMin
	case "max":
		side = bubble.SideMax
	default:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "edited must be min or max, got %q", req.Edited))
		return
	}
	if _, err := sess.Engine.SetRange(bubble.Range{Min: req.Min, Max: req.Max}, side); err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, sess, nil)
}

// IntRequest is the body of the columns, groups and count endpoints.
type IntRequest struct {
	Value int `json:"value"`
}

func (s *Server) setInt(set func(e *engine.Engine, n int) error) sessionHandler {
	return func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var req IntRequest
		if !s.decode(w, r, &req) {
			return
		}
		if err := set(sess.Engine, req.Value); err != nil {
			s.fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, sess, nil)
	}
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.setInt((*engine.Engine).SetColumns)(w, r, sess)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.setInt((*engine.Engine).SetGroups)(w, r, sess)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.setInt((*engine.Engine).SetCount)(w, r, sess)
}
