package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/registry-restructurer/internal/restructure"
)

// renameRequest is the body for area, device and entity renames.
type renameRequest struct {
	Name string `json:"name"`
	// LearnMapping, on entity renames, stores the new base name as the
	// preferred label for the entity's device class.
	LearnMapping bool `json:"learn_mapping,omitempty"`
}

// handlePreviewAll returns the computed target name for every loaded
// entity without touching the upstream registry.
func (s *Server) handlePreviewAll(w http.ResponseWriter, _ *http.Request) {
	previews := s.service.PreviewAll()
	writeJSON(w, http.StatusOK, map[string]any{"previews": previews, "count": len(previews)})
}

// handlePreviewArea returns previews for every entity under an area,
// including entities on the area's devices.
func (s *Server) handlePreviewArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	previews := s.service.PreviewArea(id)
	writeJSON(w, http.StatusOK, map[string]any{"previews": previews, "count": len(previews)})
}

// handlePreviewDevice returns previews for a device's entities.
func (s *Server) handlePreviewDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	previews := s.service.PreviewDevice(id)
	writeJSON(w, http.StatusOK, map[string]any{"previews": previews, "count": len(previews)})
}

// handleRenameArea renames an area and cascades the change to every
// affected entity. Per-entity failures are itemised in the response,
// not raised as an error.
func (s *Server) handleRenameArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.service.ApplyAreaRename(r.Context(), id, req.Name)
	if err != nil {
		s.writeRenameError(w, err, "area")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRenameDevice renames a device and cascades the change to its
// entities.
func (s *Server) handleRenameDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.service.ApplyDeviceRename(r.Context(), id, req.Name)
	if err != nil {
		s.writeRenameError(w, err, "device")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRenameEntity sets an entity's base name. The entity is
// addressed by its immutable registry ID.
func (s *Server) handleRenameEntity(w http.ResponseWriter, r *http.Request) {
	registryID := chi.URLParam(r, "id")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.service.ApplyEntityRename(r.Context(), registryID, req.Name, req.LearnMapping)
	if err != nil {
		s.writeRenameError(w, err, "entity")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleEnableEntity clears an entity's disabled state.
func (s *Server) handleEnableEntity(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "id")

	if err := s.service.EnableEntity(r.Context(), entityID); err != nil {
		s.logger.Error("enabling entity", "entity_id", entityID, "error", err)
		writeInternalError(w, "failed to enable entity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity_id": entityID, "enabled": true})
}

// handleDeleteEntity removes an orphaned entity from the upstream
// registry.
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "id")

	if err := s.service.DeleteEntity(r.Context(), entityID); err != nil {
		s.logger.Error("deleting entity", "entity_id", entityID, "error", err)
		writeInternalError(w, "failed to delete entity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity_id": entityID, "deleted": true})
}

// writeRenameError maps rename errors to HTTP responses: missing names
// are a validation problem, unknown targets a 404, anything else a
// registry failure.
func (s *Server) writeRenameError(w http.ResponseWriter, err error, kind string) {
	switch {
	case errors.Is(err, restructure.ErrNameRequired):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "name is required")
	case errors.Is(err, restructure.ErrAreaUnknown),
		errors.Is(err, restructure.ErrDeviceUnknown),
		errors.Is(err, restructure.ErrEntityUnknown):
		writeNotFound(w, kind+" not found")
	default:
		s.logger.Error("rename failed", "kind", kind, "error", err)
		writeInternalError(w, "rename failed")
	}
}
