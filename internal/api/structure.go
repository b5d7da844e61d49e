package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetStructure returns the loaded hierarchy: areas, devices,
// entities and counts.
func (s *Server) handleGetStructure(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"areas":    s.service.Areas(),
		"devices":  s.service.Devices(),
		"entities": s.service.Entities(),
		"counts":   s.service.Counts(),
	})
}

// handleReloadStructure refetches areas, devices and entities from the
// upstream registry and rebuilds the hierarchy.
func (s *Server) handleReloadStructure(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.LoadStructure(r.Context())
	if err != nil {
		s.logger.Error("reloading structure", "error", err)
		writeInternalError(w, "failed to reload structure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

// handleGetHierarchy returns an entity with its ancestor chain. The
// entity is addressed by its current entity ID.
func (s *Server) handleGetHierarchy(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	path, ok := s.service.HierarchyForEntity(entityID)
	if !ok {
		writeNotFound(w, "entity not found")
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// handleListAreas returns the loaded areas.
func (s *Server) handleListAreas(w http.ResponseWriter, _ *http.Request) {
	areas := s.service.Areas()
	writeJSON(w, http.StatusOK, map[string]any{"areas": areas, "count": len(areas)})
}

// handleListAreaDevices returns the devices assigned to an area.
func (s *Server) handleListAreaDevices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	devices := s.service.DevicesForArea(id)
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleListDevices returns the loaded devices.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.service.Devices()
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleListEntities returns every entity known to the platform, for
// autocomplete in replacement pickers.
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := s.service.AllEntities(r.Context())
	if err != nil {
		s.logger.Error("listing entities", "error", err)
		writeInternalError(w, "failed to list entities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities, "count": len(entities)})
}
