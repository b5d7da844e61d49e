package restructure

import (
	"context"
	"fmt"
	"sort"

	"github.com/nerrad567/registry-restructurer/internal/depend"
	"github.com/nerrad567/registry-restructurer/internal/hierarchy"
	"github.com/nerrad567/registry-restructurer/internal/registry"
)

// ApplyEntityRename sets an entity's base name and applies the
// resulting id and friendly-name change to the registry, then rewrites
// references in dependent documents.
//
// When learnMapping is true and the entity carries a device class, the
// new base name is also stored as the user's preferred label for that
// type, so future entities of the same class pick it up.
//
// The reference cache is invalidated after all update attempts.
func (s *Service) ApplyEntityRename(ctx context.Context, registryID, newBaseName string, learnMapping bool) (EntityRenameResult, error) {
	if newBaseName == "" {
		return EntityRenameResult{}, ErrNameRequired
	}

	entity, ok := s.hierarchy.Entity(registryID)
	if !ok {
		return EntityRenameResult{}, fmt.Errorf("%w: %s", ErrEntityUnknown, registryID)
	}

	if learnMapping && entity.DeviceClass != "" {
		if err := s.translator.SetUserMapping(ctx, entity.DeviceClass, newBaseName); err != nil {
			s.logger.Error("learning type mapping", "type_key", entity.DeviceClass, "error", err)
		} else {
			s.logger.Info("learned type mapping", "type_key", entity.DeviceClass, "label", newBaseName)
		}
	}

	computed, err := s.hierarchy.UpdateEntityName(ctx, registryID, newBaseName)
	if err != nil {
		return EntityRenameResult{}, fmt.Errorf("persisting override for %s: %w", registryID, err)
	}

	result := EntityRenameResult{
		RegistryID:   registryID,
		OldEntityID:  entity.ID,
		NewEntityID:  computed.EntityID,
		FriendlyName: computed.FriendlyName,
		IDChanged:    computed.EntityID != "" && computed.EntityID != entity.ID,
	}

	if result.IDChanged {
		if _, err := s.client.RenameEntity(ctx, entity.ID, computed.EntityID, computed.FriendlyName); err != nil {
			return result, fmt.Errorf("renaming %s: %w", entity.ID, err)
		}
		deps := s.propagate(ctx, entity.ID, computed.EntityID)
		result.Dependencies = deps
	} else {
		result.NewEntityID = entity.ID
		if _, err := s.client.UpdateEntity(ctx, entity.ID, registry.EntityUpdate{Name: computed.FriendlyName}); err != nil {
			return result, fmt.Errorf("updating %s: %w", entity.ID, err)
		}
	}

	s.checker.Invalidate()

	s.publishEvent(topics.EntityRenamed(), map[string]any{
		"registry_id":   registryID,
		"old_entity_id": result.OldEntityID,
		"new_entity_id": result.NewEntityID,
		"friendly_name": result.FriendlyName,
	})
	if s.metrics != nil {
		updated, failed := 0, 0
		if result.Dependencies != nil {
			updated = result.Dependencies.TotalSuccess
			failed = result.Dependencies.TotalFailed
		}
		s.metrics.WriteRenameMetric("entity", updated, failed)
	}

	return result, nil
}

// ApplyAreaRename renames an area in the registry and cascades the
// change to every entity whose computed name depends on it. The
// external area rename happens first; entity failures are itemised
// and never abort the cascade.
func (s *Service) ApplyAreaRename(ctx context.Context, areaID, newName string) (CascadeResult, error) {
	if newName == "" {
		return CascadeResult{}, ErrNameRequired
	}
	if _, ok := s.areaNode(areaID); !ok {
		return CascadeResult{}, fmt.Errorf("%w: %s", ErrAreaUnknown, areaID)
	}

	if err := s.client.UpdateArea(ctx, areaID, newName); err != nil {
		return CascadeResult{}, fmt.Errorf("renaming area %s: %w", areaID, err)
	}

	affected := s.hierarchy.UpdateAreaName(areaID, newName)
	result := s.applyCascade(ctx, areaID, newName, affected)

	s.checker.Invalidate()

	s.publishEvent(topics.AreaRenamed(), map[string]any{
		"area_id":   areaID,
		"new_name":  newName,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
	if s.metrics != nil {
		s.metrics.WriteRenameMetric("area", result.Succeeded, result.Failed)
	}

	return result, nil
}

// ApplyDeviceRename renames a device in the registry and cascades the
// change to its entities. Semantics match ApplyAreaRename.
func (s *Service) ApplyDeviceRename(ctx context.Context, deviceID, newName string) (CascadeResult, error) {
	if newName == "" {
		return CascadeResult{}, ErrNameRequired
	}
	if _, ok := s.deviceNode(deviceID); !ok {
		return CascadeResult{}, fmt.Errorf("%w: %s", ErrDeviceUnknown, deviceID)
	}

	if err := s.client.UpdateDevice(ctx, deviceID, newName); err != nil {
		return CascadeResult{}, fmt.Errorf("renaming device %s: %w", deviceID, err)
	}

	affected := s.hierarchy.UpdateDeviceName(deviceID, newName)
	result := s.applyCascade(ctx, deviceID, newName, affected)

	s.checker.Invalidate()

	s.publishEvent(topics.DeviceRenamed(), map[string]any{
		"device_id": deviceID,
		"new_name":  newName,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
	if s.metrics != nil {
		s.metrics.WriteRenameMetric("device", result.Succeeded, result.Failed)
	}

	return result, nil
}

// applyCascade pushes recomputed names to the registry for every
// affected entity and rewrites dependent documents for those whose id
// changed. Entities are processed in registry-id order so results are
// stable.
func (s *Service) applyCascade(ctx context.Context, id, newName string, affected map[string]hierarchy.ComputedName) CascadeResult {
	result := CascadeResult{ID: id, NewName: newName}

	registryIDs := make([]string, 0, len(affected))
	for registryID := range affected {
		registryIDs = append(registryIDs, registryID)
	}
	sort.Strings(registryIDs)

	for _, registryID := range registryIDs {
		computed := affected[registryID]
		entity, ok := s.hierarchy.Entity(registryID)
		if !ok {
			continue
		}

		item := CascadeItem{
			RegistryID:   registryID,
			OldEntityID:  entity.ID,
			NewEntityID:  computed.EntityID,
			FriendlyName: computed.FriendlyName,
			IDChanged:    computed.EntityID != "" && computed.EntityID != entity.ID,
		}

		if item.IDChanged {
			_, err := s.client.RenameEntity(ctx, entity.ID, computed.EntityID, computed.FriendlyName)
			if err != nil {
				item.Error = err.Error()
				s.logger.Error("cascade rename failed", "entity_id", entity.ID, "error", err)
				result.Items = append(result.Items, item)
				result.Failed++
				continue
			}
			item.Dependencies = s.propagate(ctx, entity.ID, computed.EntityID)
		} else {
			item.NewEntityID = entity.ID
			_, err := s.client.UpdateEntity(ctx, entity.ID, registry.EntityUpdate{Name: computed.FriendlyName})
			if err != nil {
				item.Error = err.Error()
				s.logger.Error("cascade update failed", "entity_id", entity.ID, "error", err)
				result.Items = append(result.Items, item)
				result.Failed++
				continue
			}
		}

		result.Items = append(result.Items, item)
		result.Succeeded++
	}

	return result
}

// propagate rewrites references to a renamed entity. A failure to load
// states is logged and yields nil; per-document failures live in the
// result.
func (s *Service) propagate(ctx context.Context, oldID, newID string) *depend.Result {
	deps, err := s.updater.UpdateAll(ctx, oldID, newID, nil)
	if err != nil {
		s.logger.Error("updating dependencies", "old", oldID, "new", newID, "error", err)
		return nil
	}
	return &deps
}

func (s *Service) areaNode(areaID string) (hierarchy.AreaNode, bool) {
	for _, area := range s.hierarchy.Areas() {
		if area.ID == areaID {
			return area, true
		}
	}
	return hierarchy.AreaNode{}, false
}

func (s *Service) deviceNode(deviceID string) (hierarchy.DeviceNode, bool) {
	for _, device := range s.hierarchy.Devices() {
		if device.ID == deviceID {
			return device, true
		}
	}
	return hierarchy.DeviceNode{}, false
}
