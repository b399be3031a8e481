package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/render/bubbles"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

const (
	maxBodyBytes = 1 << 20
	maxSteps     = 600
	defaultDT    = 1.0 / 60
)

// =============================================================================
// Request / Response Types
// =============================================================================

type sizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sizeResponse struct {
	Size     geom.Size `json:"size"`
	Field    Field     `json:"field"`
	Boundary geom.Rect `json:"boundary"`
}

// Field mirrors cloud.Field with JSON-friendly coordinates.
type Field struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Radius        float64 `json:"radius"`
	MinimumRadius float64 `json:"minimum_radius"`
	Strength      float64 `json:"strength"`
}

type nodeRequest struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Radius float64           `json:"radius"`
	Meta   map[string]string `json:"meta"`
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type moveResponse struct {
	Applied bool   `json:"applied"`
	State   string `json:"state"`
}

type tapResponse struct {
	Selected *snapshot.Node `json:"selected"`
}

type stepRequest struct {
	DT    float64 `json:"dt"`
	Steps int     `json:"steps"`
}

type modeRequest struct {
	Multiple bool `json:"multiple"`
}

type selectionResponse struct {
	Multiple bool            `json:"multiple"`
	Nodes    []snapshot.Node `json:"nodes"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// =============================================================================
// Surface
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	err := s.surface.Configure(geom.Size{Width: req.Width, Height: req.Height})
	resp := s.sizeResponse()
	s.mu.Unlock()

	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) sizeResponse() sizeResponse {
	f := s.surface.Field()
	return sizeResponse{
		Size:     s.surface.Size(),
		Field:    Field{X: f.Center.X, Y: f.Center.Y, Radius: f.Radius, MinimumRadius: f.MinimumRadius, Strength: f.Strength},
		Boundary: s.surface.Boundary(),
	}
}

// =============================================================================
// Nodes
// =============================================================================

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Radius == 0 {
		req.Radius = s.cfg.NodeRadius
	}

	n, err := cloud.NewNode(req.Radius,
		cloud.WithID(req.ID),
		cloud.WithLabel(req.Label),
		cloud.WithMeta(req.Meta),
	)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	if err := s.surface.AddNode(n); err != nil {
		s.mu.Unlock()
		s.respondError(w, err)
		return
	}
	resp := snapshot.FromNode(n)
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.surface.RemoveNode(id)
	s.mu.Unlock()

	if err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Pointer
// =============================================================================

func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !s.decode(w, r, &req) {
		return
	}
	p := geom.Vec{X: req.X, Y: req.Y}

	s.mu.Lock()
	s.surface.PointerDown(p)
	s.pointer, s.pressed = p, true
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handlePointerMove drags from the last pointer position to the request
// point. A move without a preceding down only records the position.
func (s *Server) handlePointerMove(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !s.decode(w, r, &req) {
		return
	}
	p := geom.Vec{X: req.X, Y: req.Y}

	s.mu.Lock()
	applied := false
	if s.pressed {
		applied = s.surface.ApplyDragForce(s.pointer, p)
	}
	s.pointer = p
	state := s.surface.State()
	s.mu.Unlock()

	s.respond(w, http.StatusOK, moveResponse{Applied: applied, State: state.String()})
}

func (s *Server) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	var resp tapResponse
	if n := s.surface.ResolveTap(geom.Vec{X: req.X, Y: req.Y}); n != nil {
		sn := snapshot.FromNode(n)
		resp.Selected = &sn
	}
	s.pressed = false
	s.mu.Unlock()

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handlePointerCancel(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.surface.PointerCancel()
	s.pressed = false
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Simulation
// =============================================================================

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	req := stepRequest{DT: defaultDT, Steps: 1}
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	if req.DT <= 0 {
		req.DT = defaultDT
	}
	if req.Steps <= 0 || req.Steps > maxSteps {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "steps must be in 1..%d, got %d", maxSteps, req.Steps))
		return
	}

	s.mu.Lock()
	for range req.Steps {
		s.surface.Step(req.DT)
	}
	snap := snapshot.Capture(s.surface)
	s.mu.Unlock()

	s.respond(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.capture())
}

func (s *Server) capture() snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Capture(s.surface)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	var opts []bubbles.Option
	if r.URL.Query().Get("theme") == "dark" {
		opts = append(opts, bubbles.WithPalette(bubbles.DarkPalette))
	}
	if r.URL.Query().Get("labels") == "false" {
		opts = append(opts, bubbles.WithoutLabels())
	}

	svg := bubbles.RenderSVG(s.capture(), opts...)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// =============================================================================
// Selection
// =============================================================================

func (s *Server) handleSelection(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := selectionResponse{
		Multiple: s.surface.AllowsMultipleSelection(),
		Nodes:    []snapshot.Node{},
	}
	for _, n := range s.surface.SelectedNodes() {
		resp.Nodes = append(resp.Nodes, snapshot.FromNode(n))
	}
	s.mu.Unlock()

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleSelectionMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.surface.SetAllowsMultipleSelection(req.Multiple)
	s.mu.Unlock()

	s.respond(w, http.StatusOK, req)
}

func (s *Server) handleDeselectAll(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.surface.DeselectAll()
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid since %q", v))
			return
		}
		since = n
	}
	s.respond(w, http.StatusOK, s.events.since(since))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respond(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSize, errors.ErrCodeInvalidNode,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case errors.ErrCodeNodeNotFound, errors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
