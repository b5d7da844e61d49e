package hierarchy

import (
	"strings"
	"time"

	"github.com/nerrad567/registry-restructurer/internal/naming"
)

// AreaNode represents an area in the hierarchy. The name is
// authoritative as supplied by the platform registry; it is only
// normalized when identifiers are derived from it.
type AreaNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the area's display name.
func (a *AreaNode) DisplayName() string {
	return a.Name
}

// NormalizedName returns the token form used in entity IDs.
func (a *AreaNode) NormalizedName() string {
	return naming.Normalize(a.Name)
}

// DeviceNode represents a device in the hierarchy. Name holds the
// base name: the platform-supplied name with the owning area's prefix
// already stripped.
type DeviceNode struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AreaID       string    `json:"area_id,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Model        string    `json:"model,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BaseName returns the device name without the area prefix.
func (d *DeviceNode) BaseName() string {
	return d.Name
}

// DisplayName returns the device's full display name with the area
// prefix. The prefix is omitted when the device name already starts
// with the area name, case-insensitively. The check is a plain
// starts-with test, not a word-boundary test: an area "Büro" also
// suppresses the prefix for a device named "Bürofenster".
func (d *DeviceNode) DisplayName(area *AreaNode) string {
	if area == nil {
		return d.Name
	}

	areaName := area.DisplayName()
	if strings.HasPrefix(strings.ToLower(d.Name), strings.ToLower(areaName)) {
		return d.Name
	}
	return areaName + " " + d.Name
}

// NormalizedName returns the token form of the display name.
func (d *DeviceNode) NormalizedName(area *AreaNode) string {
	return naming.Normalize(d.DisplayName(area))
}

// EntityNode represents an entity in the hierarchy.
//
// ID is the current, mutable entity ID (light.old_name). RegistryID
// is the immutable registry key that survives renames; it is the only
// identifier safe for long-term cross-references, and it keys the
// manager's entity map.
type EntityNode struct {
	ID           string    `json:"id"`
	RegistryID   string    `json:"registry_id"`
	Domain       string    `json:"domain"`
	DeviceID     string    `json:"device_id,omitempty"`
	AreaID       string    `json:"area_id,omitempty"` // direct assignment, only when no device
	DeviceClass  string    `json:"device_class,omitempty"`
	OriginalName string    `json:"original_name,omitempty"`
	BaseName     string    `json:"base_name,omitempty"`
	OverrideName string    `json:"override_name,omitempty"`
	DisabledBy   string    `json:"disabled_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectiveBaseName returns the override name when set, else the
// derived base name.
func (e *EntityNode) EffectiveBaseName() string {
	if e.OverrideName != "" {
		return e.OverrideName
	}
	return e.BaseName
}

// DisplayName composes the entity's full display name from its
// ancestor chain: "[Area] [DeviceBase] [EffectiveBase]". Missing
// segments are omitted; when neither ancestor nor base name exists
// the original name or entity ID stands in.
//
// The same duplication check as DeviceNode.DisplayName applies: a
// base name that already starts with the ancestor's display name
// suppresses the prefix.
func (e *EntityNode) DisplayName(device *DeviceNode, area *AreaNode) string {
	base := e.EffectiveBaseName()

	switch {
	case device != nil:
		deviceName := device.DisplayName(area)
		switch {
		case base == "":
			return deviceName
		case strings.HasPrefix(strings.ToLower(base), strings.ToLower(deviceName)):
			return base
		}
		return deviceName + " " + base
	case area != nil:
		areaName := area.DisplayName()
		switch {
		case base == "":
			return areaName
		case strings.HasPrefix(strings.ToLower(base), strings.ToLower(areaName)):
			return base
		}
		return areaName + " " + base
	}

	if base != "" {
		return base
	}
	if e.OriginalName != "" {
		return e.OriginalName
	}
	return e.ID
}

// EntityID derives the entity ID from the composed display name:
// {domain}.{normalize(display name)}. The ID is never hand-assembled
// from raw fragments.
func (e *EntityNode) EntityID(device *DeviceNode, area *AreaNode) string {
	return e.Domain + "." + naming.Normalize(e.DisplayName(device, area))
}

// ComputedName is the result of a name computation for one entity.
type ComputedName struct {
	EntityID     string `json:"entity_id"`
	FriendlyName string `json:"friendly_name"`
}

// AreaInfo is the registry-supplied input for one area.
type AreaInfo struct {
	ID   string
	Name string
}

// DeviceInfo is the registry-supplied input for one device. Name is
// the raw platform name; NameByUser, when set, takes precedence.
type DeviceInfo struct {
	ID           string
	Name         string
	NameByUser   string
	AreaID       string
	Manufacturer string
	Model        string
}

// EntityInfo is the registry-supplied input for one entity.
type EntityInfo struct {
	EntityID            string
	RegistryID          string
	DeviceID            string
	AreaID              string
	DeviceClass         string
	OriginalDeviceClass string
	Name                string // user-set friendly name
	OriginalName        string // integration-supplied friendly name
	DisabledBy          string
}

// rawName returns the platform-supplied device name, preferring the
// user-set one.
func (d DeviceInfo) rawName() string {
	if d.NameByUser != "" {
		return d.NameByUser
	}
	return d.Name
}

// friendlyName returns the entity's display name as supplied by the
// platform, preferring the user-set one.
func (e EntityInfo) friendlyName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.OriginalName
}

// deviceClass returns the entity's type hint, preferring the user-set
// device class.
func (e EntityInfo) deviceClass() string {
	if e.DeviceClass != "" {
		return e.DeviceClass
	}
	return e.OriginalDeviceClass
}
