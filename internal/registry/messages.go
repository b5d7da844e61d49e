package registry

import "encoding/json"

// Websocket message types for the registry command protocol.
const (
	msgTypeAuthRequired = "auth_required"
	msgTypeAuth         = "auth"
	msgTypeAuthOK       = "auth_ok"
	msgTypeAuthInvalid  = "auth_invalid"
	msgTypeResult       = "result"
)

// Registry command types.
const (
	cmdAreaList     = "config/area_registry/list"
	cmdAreaUpdate   = "config/area_registry/update"
	cmdDeviceList   = "config/device_registry/list"
	cmdDeviceUpdate = "config/device_registry/update"
	cmdEntityList   = "config/entity_registry/list"
	cmdEntityUpdate = "config/entity_registry/update"
	cmdEntityRemove = "config/entity_registry/remove"
)

// serverMessage is the envelope every inbound websocket frame decodes
// into.
type serverMessage struct {
	ID        int64           `json:"id,omitempty"`
	Type      string          `json:"type"`
	HAVersion string          `json:"ha_version,omitempty"`
	Message   string          `json:"message,omitempty"`
	Success   bool            `json:"success,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *CommandError   `json:"error,omitempty"`
}

// CommandError carries the platform's error details for a failed
// command.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// authMessage is the client's answer to auth_required.
type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// Area is one area registry entry.
type Area struct {
	AreaID  string   `json:"area_id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	FloorID *string  `json:"floor_id,omitempty"`
	Icon    *string  `json:"icon,omitempty"`
}

// Device is one device registry entry. Nullable registry fields stay
// pointers so absence survives decoding.
type Device struct {
	ID           string   `json:"id"`
	AreaID       *string  `json:"area_id"`
	DisabledBy   *string  `json:"disabled_by"`
	Manufacturer *string  `json:"manufacturer"`
	Model        *string  `json:"model"`
	Name         *string  `json:"name"`
	NameByUser   *string  `json:"name_by_user"`
	Labels       []string `json:"labels,omitempty"`
	ViaDeviceID  *string  `json:"via_device_id"`
}

// DisplayName returns the best available name for the device.
func (d *Device) DisplayName() string {
	if d.NameByUser != nil && *d.NameByUser != "" {
		return *d.NameByUser
	}
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.ID
}

// Entity is one entity registry entry.
type Entity struct {
	EntityID            string   `json:"entity_id"`
	ID                  string   `json:"id"` // immutable registry key
	AreaID              *string  `json:"area_id"`
	DeviceID            *string  `json:"device_id"`
	DisabledBy          *string  `json:"disabled_by"`
	HiddenBy            *string  `json:"hidden_by"`
	Platform            string   `json:"platform"`
	Name                *string  `json:"name"`
	OriginalName        *string  `json:"original_name"`
	DeviceClass         *string  `json:"device_class"`
	OriginalDeviceClass *string  `json:"original_device_class"`
	Labels              []string `json:"labels,omitempty"`
	HasEntityName       bool     `json:"has_entity_name"`
}

// DisplayName returns the best available name for the entity.
func (e *Entity) DisplayName() string {
	if e.Name != nil && *e.Name != "" {
		return *e.Name
	}
	if e.OriginalName != nil && *e.OriginalName != "" {
		return *e.OriginalName
	}
	return e.EntityID
}

// EntityUpdate is the set of mutations one entity registry update can
// carry. Nil fields are omitted from the command; Enable explicitly
// clears disabled_by.
type EntityUpdate struct {
	NewEntityID string
	Name        string
	Labels      []string
	Enable      bool
}
