package hierarchy

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/registry-restructurer/internal/naming"
	"github.com/nerrad567/registry-restructurer/internal/overrides"
	"github.com/nerrad567/registry-restructurer/internal/typemap"
)

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// TypeTranslator resolves a type key (device class, domain) to a
// human-readable label.
type TypeTranslator interface {
	Translate(typeKey, language, integration, domain string) string
}

// Manager owns the Area -> Device -> Entity node graph and computes
// composed names and entity IDs.
//
// It is the single source of truth for composed names: preview and
// execute flows consult it rather than duplicating naming logic. All
// public methods are thread-safe behind one RWMutex; the design
// assumes a single active instance whose caches are invalidated by
// reloads rather than fine-grained locking.
type Manager struct {
	store      overrides.Repository
	translator TypeTranslator
	language   string
	logger     Logger

	mu       sync.RWMutex
	areas    map[string]*AreaNode
	devices  map[string]*DeviceNode
	entities map[string]*EntityNode // keyed by registry ID

	// Relationship indexes for cascade updates.
	areaDevices    map[string]map[string]struct{} // area ID -> device IDs
	deviceEntities map[string]map[string]struct{} // device ID -> registry IDs
	areaEntities   map[string]map[string]struct{} // area ID -> registry IDs (direct)

	entityIDToRegistry map[string]string
}

// NewManager creates a hierarchy manager. The overrides store and the
// type translator are required collaborators.
func NewManager(store overrides.Repository, translator TypeTranslator, language string) *Manager {
	return &Manager{
		store:              store,
		translator:         translator,
		language:           language,
		logger:             noopLogger{},
		areas:              make(map[string]*AreaNode),
		devices:            make(map[string]*DeviceNode),
		entities:           make(map[string]*EntityNode),
		areaDevices:        make(map[string]map[string]struct{}),
		deviceEntities:     make(map[string]map[string]struct{}),
		areaEntities:       make(map[string]map[string]struct{}),
		entityIDToRegistry: make(map[string]string),
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Load clears all in-memory state and rebuilds the node graph from
// registry data. Device base names are derived by stripping the
// owning area's name; entity base names via extractBaseName.
//
// Persisted overrides are read once and attached to their entities;
// an override for an unknown registry ID is simply unused until the
// entity appears.
func (m *Manager) Load(ctx context.Context, areas []AreaInfo, devices []DeviceInfo, entities []EntityInfo) error {
	overrideSet, err := m.store.All(ctx)
	if err != nil {
		// Overrides enrich names but are not required to build the
		// graph; continue without them.
		m.logger.Error("loading naming overrides", "error", err)
		overrideSet = map[string]overrides.Override{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.areas = make(map[string]*AreaNode, len(areas))
	m.devices = make(map[string]*DeviceNode, len(devices))
	m.entities = make(map[string]*EntityNode, len(entities))
	m.areaDevices = make(map[string]map[string]struct{}, len(areas))
	m.deviceEntities = make(map[string]map[string]struct{}, len(devices))
	m.areaEntities = make(map[string]map[string]struct{}, len(areas))
	m.entityIDToRegistry = make(map[string]string, len(entities))

	now := time.Now().UTC()

	for _, a := range areas {
		m.areas[a.ID] = &AreaNode{ID: a.ID, Name: a.Name, UpdatedAt: now}
		m.areaDevices[a.ID] = make(map[string]struct{})
		m.areaEntities[a.ID] = make(map[string]struct{})
	}

	for _, d := range devices {
		baseName := d.rawName()
		if area, ok := m.areas[d.AreaID]; ok {
			baseName = naming.StripPrefix(baseName, area.Name)
		}

		m.devices[d.ID] = &DeviceNode{
			ID:           d.ID,
			Name:         baseName,
			AreaID:       d.AreaID,
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			UpdatedAt:    now,
		}

		if _, ok := m.areaDevices[d.AreaID]; ok {
			m.areaDevices[d.AreaID][d.ID] = struct{}{}
		}
		m.deviceEntities[d.ID] = make(map[string]struct{})
	}

	for _, e := range entities {
		registryID := e.RegistryID
		if registryID == "" {
			registryID = e.EntityID
		}

		domain, _, _ := strings.Cut(e.EntityID, ".")

		device := m.devices[e.DeviceID]
		var area *AreaNode
		switch {
		case device != nil && device.AreaID != "":
			area = m.areas[device.AreaID]
		case e.AreaID != "":
			area = m.areas[e.AreaID]
		}

		var overrideName string
		if o, ok := overrideSet[registryID]; ok {
			overrideName = o.Name
		}

		directAreaID := e.AreaID
		if e.DeviceID != "" {
			directAreaID = ""
		}

		m.entities[registryID] = &EntityNode{
			ID:           e.EntityID,
			RegistryID:   registryID,
			Domain:       domain,
			DeviceID:     e.DeviceID,
			AreaID:       directAreaID,
			DeviceClass:  e.deviceClass(),
			OriginalName: e.friendlyName(),
			BaseName:     m.extractBaseName(e, device, area),
			OverrideName: overrideName,
			DisabledBy:   e.DisabledBy,
			UpdatedAt:    now,
		}

		m.entityIDToRegistry[e.EntityID] = registryID

		switch {
		case e.DeviceID != "":
			if _, ok := m.deviceEntities[e.DeviceID]; ok {
				m.deviceEntities[e.DeviceID][registryID] = struct{}{}
			}
		case e.AreaID != "":
			if _, ok := m.areaEntities[e.AreaID]; ok {
				m.areaEntities[e.AreaID][registryID] = struct{}{}
			}
		}
	}

	m.logger.Info("hierarchy loaded",
		"areas", len(m.areas),
		"devices", len(m.devices),
		"entities", len(m.entities),
	)
	return nil
}

// extractBaseName derives a meaningful base name for an entity by
// stripping ancestor prefixes from its friendly name. Upstream
// display names are inconsistently formatted - some integrations omit
// the separator space, some omit hierarchy prefixes entirely - so the
// fallbacks are tried in order:
//
//  1. Strip the composed ancestor display name (then the device base
//     name) from the friendly name; use the remainder if anything was
//     stripped.
//  2. Translate the device-class hint ("temperature" -> "Temperature").
//  3. Strip an ancestor prefix that lacks the separator space, by
//     exact length.
//  4. The unchanged friendly name.
//  5. Derive from the entity ID: last underscore-separated segment of
//     the object part, else the domain, title-cased.
func (m *Manager) extractBaseName(e EntityInfo, device *DeviceNode, area *AreaNode) string {
	originalName := e.friendlyName()

	if originalName != "" {
		stripped := originalName

		switch {
		case device != nil:
			stripped = naming.StripPrefix(stripped, device.DisplayName(area))
			// Some integrations name entities without the area prefix.
			if stripped == originalName {
				stripped = naming.StripPrefix(stripped, device.BaseName())
			}
		case area != nil:
			stripped = naming.StripPrefix(stripped, area.DisplayName())
		}

		if stripped != "" && stripped != originalName {
			return strings.TrimSpace(stripped)
		}
	}

	if deviceClass := e.deviceClass(); deviceClass != "" {
		domain, _, _ := strings.Cut(e.EntityID, ".")
		integration := typemap.DetectIntegration(e.EntityID)
		return m.translator.Translate(deviceClass, m.language, integration, domain)
	}

	if originalName != "" {
		if device != nil {
			deviceDisplay := device.DisplayName(area)
			if strings.HasPrefix(strings.ToLower(originalName), strings.ToLower(deviceDisplay)) {
				if remainder := strings.TrimSpace(originalName[len(deviceDisplay):]); remainder != "" {
					return remainder
				}
			}
		}
		return originalName
	}

	domain, objectID, _ := strings.Cut(e.EntityID, ".")
	if parts := strings.Split(objectID, "_"); len(parts) > 1 {
		return typemap.TitleCase(parts[len(parts)-1])
	}
	return typemap.TitleCase(domain)
}

// ComputeName resolves an entity's ancestors and returns its computed
// entity ID and display name. Unknown registry IDs yield an empty
// result, logged, never an error.
func (m *Manager) ComputeName(registryID string) ComputedName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.computeNameLocked(registryID)
}

func (m *Manager) computeNameLocked(registryID string) ComputedName {
	entity, ok := m.entities[registryID]
	if !ok {
		m.logger.Warn("entity not found", "registry_id", registryID)
		return ComputedName{}
	}

	device, area := m.ancestorsLocked(entity)
	return ComputedName{
		EntityID:     entity.EntityID(device, area),
		FriendlyName: entity.DisplayName(device, area),
	}
}

// ancestorsLocked resolves an entity's device and area. The device's
// area wins over a direct assignment.
func (m *Manager) ancestorsLocked(entity *EntityNode) (*DeviceNode, *AreaNode) {
	var device *DeviceNode
	if entity.DeviceID != "" {
		device = m.devices[entity.DeviceID]
	}

	switch {
	case device != nil && device.AreaID != "":
		return device, m.areas[device.AreaID]
	case entity.AreaID != "":
		return device, m.areas[entity.AreaID]
	}
	return device, nil
}

// ComputeAllNames computes names for every entity in the hierarchy,
// keyed by registry ID.
func (m *Manager) ComputeAllNames() map[string]ComputedName {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]ComputedName, len(m.entities))
	for registryID, entity := range m.entities {
		device, area := m.ancestorsLocked(entity)
		result[registryID] = ComputedName{
			EntityID:     entity.EntityID(device, area),
			FriendlyName: entity.DisplayName(device, area),
		}
	}
	return result
}

// UpdateAreaName mutates the in-memory area name and recomputes names
// for every entity under the area: via its devices and directly
// assigned. This is a preview - the platform-side rename is the
// caller's job. Unknown area IDs yield an empty map, logged.
func (m *Manager) UpdateAreaName(areaID, newName string) map[string]ComputedName {
	m.mu.Lock()
	defer m.mu.Unlock()

	area, ok := m.areas[areaID]
	if !ok {
		m.logger.Warn("area not found", "area_id", areaID)
		return map[string]ComputedName{}
	}

	now := time.Now().UTC()
	area.Name = newName
	area.UpdatedAt = now

	affected := make(map[string]ComputedName)

	for deviceID := range m.areaDevices[areaID] {
		device := m.devices[deviceID]
		device.UpdatedAt = now

		for registryID := range m.deviceEntities[deviceID] {
			entity := m.entities[registryID]
			entity.UpdatedAt = now
			affected[registryID] = ComputedName{
				EntityID:     entity.EntityID(device, area),
				FriendlyName: entity.DisplayName(device, area),
			}
		}
	}

	for registryID := range m.areaEntities[areaID] {
		entity := m.entities[registryID]
		entity.UpdatedAt = now
		affected[registryID] = ComputedName{
			EntityID:     entity.EntityID(nil, area),
			FriendlyName: entity.DisplayName(nil, area),
		}
	}

	m.logger.Info("area name updated", "area_id", areaID, "new_name", newName, "affected", len(affected))
	return affected
}

// UpdateDeviceName mutates the in-memory device base name and
// recomputes names for the device's entities. Same preview semantics
// as UpdateAreaName.
func (m *Manager) UpdateDeviceName(deviceID, newName string) map[string]ComputedName {
	m.mu.Lock()
	defer m.mu.Unlock()

	device, ok := m.devices[deviceID]
	if !ok {
		m.logger.Warn("device not found", "device_id", deviceID)
		return map[string]ComputedName{}
	}

	now := time.Now().UTC()
	device.Name = newName
	device.UpdatedAt = now

	var area *AreaNode
	if device.AreaID != "" {
		area = m.areas[device.AreaID]
	}

	affected := make(map[string]ComputedName)
	for registryID := range m.deviceEntities[deviceID] {
		entity := m.entities[registryID]
		entity.UpdatedAt = now
		affected[registryID] = ComputedName{
			EntityID:     entity.EntityID(device, area),
			FriendlyName: entity.DisplayName(device, area),
		}
	}

	m.logger.Info("device name updated", "device_id", deviceID, "new_name", newName, "affected", len(affected))
	return affected
}

// UpdateEntityName sets the entity's override name, persists it
// through the overrides store, and returns the entity's recomputed
// names. Unknown registry IDs yield an empty result, logged, with no
// error; only a persistence failure is an error.
func (m *Manager) UpdateEntityName(ctx context.Context, registryID, newName string) (ComputedName, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entity, ok := m.entities[registryID]
	if !ok {
		m.logger.Warn("entity not found", "registry_id", registryID)
		return ComputedName{}, nil
	}

	entity.OverrideName = newName
	entity.UpdatedAt = time.Now().UTC()

	if err := m.store.Set(ctx, registryID, overrides.Override{Name: newName}); err != nil {
		return ComputedName{}, err
	}

	device, area := m.ancestorsLocked(entity)
	computed := ComputedName{
		EntityID:     entity.EntityID(device, area),
		FriendlyName: entity.DisplayName(device, area),
	}

	m.logger.Info("entity name updated", "registry_id", registryID, "new_name", newName)
	return computed, nil
}
