package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

type restoreResponse struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no snapshot store configured"))
		return false
	}
	return true
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respond(w, http.StatusOK, names)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := chi.URLParam(r, "name")
	snap := s.capture()
	if err := s.store.Save(r.Context(), name, snap); err != nil {
		s.respondError(w, err)
		return
	}
	s.logger.Info("saved snapshot", "name", name, "nodes", len(snap.Nodes))
	s.respond(w, http.StatusOK, snap)
}

// handleRestoreSnapshot replaces the served surface with a stored one.
func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := chi.URLParam(r, "name")
	snap, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.respondError(w, err)
		return
	}

	surface, err := snapshot.Restore(snap,
		cloud.WithLogger(s.logger),
		cloud.WithIntegrator(physics.New(s.cfg.Physics)),
	)
	if err != nil {
		s.respondError(w, err)
		return
	}

	nodes := surface.Len()
	s.mu.Lock()
	s.attach(surface)
	s.mu.Unlock()

	s.logger.Info("restored snapshot", "name", name, "nodes", nodes)
	s.respond(w, http.StatusOK, restoreResponse{Name: name, Nodes: nodes})
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
