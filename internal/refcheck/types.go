package refcheck

import "context"

// BrokenReference describes one reference to a missing entity found
// in a configuration document.
type BrokenReference struct {
	// ConfigType is "automation", "scene" or "script".
	ConfigType string `json:"config_type"`
	// ConfigID is the entity ID of the referencing document
	// (automation.morning_routine).
	ConfigID   string `json:"config_id"`
	ConfigName string `json:"config_name"`
	// MissingEntityID is the referenced entity that no longer exists.
	MissingEntityID string `json:"missing_entity_id"`
	// Context is "trigger", "condition", "action" or "entity",
	// classified from the document path.
	Context string `json:"context"`
	// NumericID is the platform-internal document ID used to build
	// edit links; empty for scripts.
	NumericID string `json:"numeric_id,omitempty"`
	// AreaID is the area assigned to the referencing document, when
	// known.
	AreaID string `json:"area_id,omitempty"`
	// Path is the breadcrumb location of the reference inside the
	// document (e.g. "trigger[0] -> entity_id").
	Path string `json:"yaml_path,omitempty"`
}

// Suggestion is one replacement candidate for a missing entity.
type Suggestion struct {
	EntityID     string   `json:"entity_id"`
	FriendlyName string   `json:"friendly_name"`
	Score        float64  `json:"score"` // 0.0 - 1.0, rounded to 3 decimals
	Reasons      []string `json:"reasons"`
}

// EntityDetail is the slice of entity state the checker needs:
// identity, display name and type hints for suggestion output and
// autocomplete.
type EntityDetail struct {
	EntityID     string `json:"entity_id"`
	FriendlyName string `json:"friendly_name"`
	Domain       string `json:"domain"`
	DeviceClass  string `json:"device_class,omitempty"`
}

// ConfigDocument is one automation, scene or script document with its
// identifying metadata.
type ConfigDocument struct {
	EntityID  string
	NumericID string
	Name      string
	Config    map[string]any
}

// DocumentSource supplies the entity universe and the configuration
// documents to scan. The platform client implements it.
type DocumentSource interface {
	// EntityStates returns every entity currently known to the
	// platform.
	EntityStates(ctx context.Context) ([]EntityDetail, error)

	// AutomationConfigs returns all automation documents.
	AutomationConfigs(ctx context.Context) ([]ConfigDocument, error)

	// SceneConfigs returns all scene documents.
	SceneConfigs(ctx context.Context) ([]ConfigDocument, error)

	// ScriptConfigs returns all script documents.
	ScriptConfigs(ctx context.Context) ([]ConfigDocument, error)
}
