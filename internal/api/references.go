package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/registry-restructurer/internal/restructure"
)

// handleBrokenReferences returns the broken references found by a
// scan. With ?cache=true a previous result is reused when still valid.
func (s *Server) handleBrokenReferences(w http.ResponseWriter, r *http.Request) {
	useCache := r.URL.Query().Get("cache") == "true"

	broken, err := s.service.ScanReferences(r.Context(), useCache)
	if err != nil {
		s.logger.Error("scanning references", "error", err)
		writeInternalError(w, "failed to scan references")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"broken": broken, "count": len(broken)})
}

// handleScanReferences forces a fresh scan, bypassing the cache.
func (s *Server) handleScanReferences(w http.ResponseWriter, r *http.Request) {
	broken, err := s.service.ScanReferences(r.Context(), false)
	if err != nil {
		s.logger.Error("scanning references", "error", err)
		writeInternalError(w, "failed to scan references")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"broken": broken, "count": len(broken)})
}

// handleSuggestions ranks replacement candidates for a missing entity
// ID given as ?entity_id=.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	entityID := r.URL.Query().Get("entity_id")
	if entityID == "" {
		writeBadRequest(w, "entity_id query parameter is required")
		return
	}

	suggestions, err := s.service.Suggest(r.Context(), entityID)
	if err != nil {
		s.logger.Error("ranking suggestions", "entity_id", entityID, "error", err)
		writeInternalError(w, "failed to rank suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entity_id":   entityID,
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// fixRequest is the body for reference repairs.
type fixRequest struct {
	OldEntityID string `json:"old_entity_id"`
	NewEntityID string `json:"new_entity_id"`
}

// handleFixReference replaces every reference to a missing entity ID
// with a replacement across all documents that mention it.
func (s *Server) handleFixReference(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.OldEntityID == "" || req.NewEntityID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "old_entity_id and new_entity_id are required")
		return
	}

	result, err := s.service.ApplyFix(r.Context(), req.OldEntityID, req.NewEntityID)
	if err != nil {
		if errors.Is(err, restructure.ErrNoBrokenReferences) {
			writeNotFound(w, "no broken references to that entity")
			return
		}
		s.logger.Error("fixing references", "old", req.OldEntityID, "error", err)
		writeInternalError(w, "failed to fix references")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
