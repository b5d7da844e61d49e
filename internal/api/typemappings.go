package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/registry-restructurer/internal/restructure"
)

// handleListTypeMappings returns every known type key with its system
// default and user override for the configured language.
func (s *Server) handleListTypeMappings(w http.ResponseWriter, _ *http.Request) {
	mappings := s.service.TypeMappings()
	writeJSON(w, http.StatusOK, map[string]any{"mappings": mappings, "count": len(mappings)})
}

// typeMappingRequest is the body for storing a type mapping.
type typeMappingRequest struct {
	Label string `json:"label"`
}

// handleSetTypeMapping stores a preferred label for a type key.
func (s *Server) handleSetTypeMapping(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req typeMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.service.LearnTypeMapping(r.Context(), key, req.Label); err != nil {
		if errors.Is(err, restructure.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, "label is required")
			return
		}
		s.logger.Error("storing type mapping", "type_key", key, "error", err)
		writeInternalError(w, "failed to store type mapping")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type_key": key, "label": req.Label})
}

// handleDeleteTypeMapping removes a user mapping, reverting the key to
// its system default.
func (s *Server) handleDeleteTypeMapping(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	removed, err := s.service.RemoveTypeMapping(r.Context(), key)
	if err != nil {
		s.logger.Error("removing type mapping", "type_key", key, "error", err)
		writeInternalError(w, "failed to remove type mapping")
		return
	}
	if !removed {
		writeNotFound(w, "no user mapping for that type key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type_key": key, "removed": true})
}
