package api

import (
	"net/http"
	"time"

	"github.com/matzehuels/bubblepack/pkg/buildinfo"
	"github.com/matzehuels/bubblepack/pkg/core/relax"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
	"github.com/matzehuels/bubblepack/pkg/httputil"
	"github.com/matzehuels/bubblepack/pkg/observability"
)

// fail writes err and reports it to the HTTP hooks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", RequestIDFromContext(r.Context()))
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst, s.srv.MaxBodyBytes); err != nil {
		s.fail(w, r, err)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Stateless endpoints
// =============================================================================

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	Snapshot engine.Snapshot `json:"snapshot"`
	CacheHit bool            `json:"cache_hit"`
	Duration string          `json:"duration"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.layout.PipelineOptions()
	if !s.decode(w, r, &opts) {
		return
	}
	opts.Logger = s.logger

	start := time.Now()
	snap, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LayoutResponse{
		Snapshot: snap,
		CacheHit: hit,
		Duration: time.Since(start).Round(time.Microsecond).String(),
	})
}

// TuneRequest is the body of POST /v1/tune. Density may be given directly
// or derived from TotalArea and RegionArea when RegionArea is set.
type TuneRequest struct {
	Density    float64 `json:"density"`
	TotalArea  float64 `json:"total_area"`
	RegionArea float64 `json:"region_area"`
	MeanRadius float64 `json:"mean_radius"`
	IterBase   int     `json:"iter_base"`
	IterMax    int     `json:"iter_max"`
}

func (s *Server) handleTune(w http.ResponseWriter, r *http.Request) {
	var req TuneRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.IterBase == 0 && req.IterMax == 0 {
		req.IterBase, req.IterMax = relax.ClusterIterBase, relax.ClusterIterMax
	}
	if req.RegionArea > 0 {
		req.Density = relax.Density(req.TotalArea, req.RegionArea)
	}
	switch {
	case req.Density < 0:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "density must be >= 0, got %v", req.Density))
		return
	case req.MeanRadius < 0:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "mean radius must be >= 0, got %v", req.MeanRadius))
		return
	case req.IterBase < 0 || req.IterMax < req.IterBase:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "iteration budget must satisfy 0 <= iter_base <= iter_max"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, relax.Tune(req.Density, req.MeanRadius, req.IterBase, req.IterMax))
}
