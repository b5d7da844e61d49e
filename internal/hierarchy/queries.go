package hierarchy

import "sort"

// EntityPath bundles an entity with its resolved ancestors. Device
// and Area are nil when the entity has no such ancestor.
type EntityPath struct {
	Entity *EntityNode `json:"entity"`
	Device *DeviceNode `json:"device,omitempty"`
	Area   *AreaNode   `json:"area,omitempty"`
}

// Areas returns a snapshot of all areas, sorted by name.
func (m *Manager) Areas() []AreaNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AreaNode, 0, len(m.areas))
	for _, a := range m.areas {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Devices returns a snapshot of all devices, sorted by name.
func (m *Manager) Devices() []DeviceNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DeviceNode, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Entities returns a snapshot of all entities, sorted by entity ID.
func (m *Manager) Entities() []EntityNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EntityNode, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Entity returns a copy of the entity with the given registry ID.
func (m *Manager) Entity(registryID string) (EntityNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entities[registryID]
	if !ok {
		return EntityNode{}, false
	}
	return *e, true
}

// EntityByID returns a copy of the entity with the given current
// entity ID.
func (m *Manager) EntityByID(entityID string) (EntityNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	registryID, ok := m.entityIDToRegistry[entityID]
	if !ok {
		return EntityNode{}, false
	}
	e, ok := m.entities[registryID]
	if !ok {
		return EntityNode{}, false
	}
	return *e, true
}

// EntityIDs returns every current entity ID, sorted. Reference checks
// use this as the universe of valid targets.
func (m *Manager) EntityIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.entityIDToRegistry))
	for id := range m.entityIDToRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PathForEntity resolves an entity's full ancestor chain by registry
// ID. Returns false when the entity is unknown.
func (m *Manager) PathForEntity(registryID string) (EntityPath, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, ok := m.entities[registryID]
	if !ok {
		return EntityPath{}, false
	}

	device, area := m.ancestorsLocked(entity)

	path := EntityPath{Entity: copyEntity(entity)}
	if device != nil {
		d := *device
		path.Device = &d
	}
	if area != nil {
		a := *area
		path.Area = &a
	}
	return path, true
}

// DevicesForArea returns copies of the devices assigned to an area,
// sorted by name.
func (m *Manager) DevicesForArea(areaID string) []DeviceNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DeviceNode, 0, len(m.areaDevices[areaID]))
	for deviceID := range m.areaDevices[areaID] {
		if d, ok := m.devices[deviceID]; ok {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EntitiesForDevice returns copies of a device's entities, sorted by
// entity ID.
func (m *Manager) EntitiesForDevice(deviceID string) []EntityNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EntityNode, 0, len(m.deviceEntities[deviceID]))
	for registryID := range m.deviceEntities[deviceID] {
		if e, ok := m.entities[registryID]; ok {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EntitiesForArea returns copies of every entity under an area: those
// on the area's devices plus those assigned directly. Sorted by
// entity ID.
func (m *Manager) EntitiesForArea(areaID string) []EntityNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []EntityNode
	for deviceID := range m.areaDevices[areaID] {
		for registryID := range m.deviceEntities[deviceID] {
			if e, ok := m.entities[registryID]; ok {
				out = append(out, *e)
			}
		}
	}
	for registryID := range m.areaEntities[areaID] {
		if e, ok := m.entities[registryID]; ok {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the number of areas, devices and entities loaded.
func (m *Manager) Counts() (areas, devices, entities int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.areas), len(m.devices), len(m.entities)
}

func copyEntity(e *EntityNode) *EntityNode {
	c := *e
	return &c
}
