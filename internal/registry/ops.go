package registry

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListAreas fetches the area registry.
func (c *Client) ListAreas(ctx context.Context) ([]Area, error) {
	raw, err := c.Call(ctx, map[string]any{"type": cmdAreaList})
	if err != nil {
		return nil, err
	}
	var areas []Area
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil, fmt.Errorf("decoding area list: %w", err)
	}
	return areas, nil
}

// ListDevices fetches the device registry.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	raw, err := c.Call(ctx, map[string]any{"type": cmdDeviceList})
	if err != nil {
		return nil, err
	}
	var devices []Device
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("decoding device list: %w", err)
	}
	return devices, nil
}

// ListEntities fetches the entity registry.
func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	raw, err := c.Call(ctx, map[string]any{"type": cmdEntityList})
	if err != nil {
		return nil, err
	}
	var entities []Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("decoding entity list: %w", err)
	}
	return entities, nil
}

// UpdateArea renames an area.
func (c *Client) UpdateArea(ctx context.Context, areaID, name string) error {
	_, err := c.Call(ctx, map[string]any{
		"type":    cmdAreaUpdate,
		"area_id": areaID,
		"name":    name,
	})
	return err
}

// UpdateDevice sets a device's user-facing name.
func (c *Client) UpdateDevice(ctx context.Context, deviceID, name string) error {
	_, err := c.Call(ctx, map[string]any{
		"type":         cmdDeviceUpdate,
		"device_id":    deviceID,
		"name_by_user": name,
	})
	return err
}

// UpdateEntity applies an entity registry update: rename the entity
// ID, set the friendly name, replace labels, or re-enable. Zero
// fields are omitted from the command so unrelated registry state is
// left alone.
func (c *Client) UpdateEntity(ctx context.Context, entityID string, update EntityUpdate) (*Entity, error) {
	command := map[string]any{
		"type":      cmdEntityUpdate,
		"entity_id": entityID,
	}
	if update.NewEntityID != "" {
		command["new_entity_id"] = update.NewEntityID
	}
	if update.Name != "" {
		command["name"] = update.Name
	}
	if update.Labels != nil {
		command["labels"] = update.Labels
	}
	if update.Enable {
		// Enabling requires explicitly nulling disabled_by.
		command["disabled_by"] = nil
	}

	raw, err := c.Call(ctx, command)
	if err != nil {
		return nil, err
	}

	// The platform wraps the updated entry in an envelope.
	var result struct {
		EntityEntry *Entity `json:"entity_entry"`
	}
	if err := json.Unmarshal(raw, &result); err != nil || result.EntityEntry == nil {
		// Older platforms return the entry bare.
		var entity Entity
		if err := json.Unmarshal(raw, &entity); err != nil {
			return nil, fmt.Errorf("decoding entity update result: %w", err)
		}
		return &entity, nil
	}
	return result.EntityEntry, nil
}

// RenameEntity changes an entity's ID and optionally its friendly
// name in one registry update.
func (c *Client) RenameEntity(ctx context.Context, oldEntityID, newEntityID, friendlyName string) (*Entity, error) {
	return c.UpdateEntity(ctx, oldEntityID, EntityUpdate{
		NewEntityID: newEntityID,
		Name:        friendlyName,
	})
}

// RemoveEntity deletes an orphaned entity from the registry.
func (c *Client) RemoveEntity(ctx context.Context, entityID string) error {
	_, err := c.Call(ctx, map[string]any{
		"type":      cmdEntityRemove,
		"entity_id": entityID,
	})
	return err
}
