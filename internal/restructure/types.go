package restructure

import (
	"github.com/nerrad567/registry-restructurer/internal/depend"
)

// StructureCounts reports how many registry objects the last load
// brought into the hierarchy.
type StructureCounts struct {
	Areas    int `json:"areas"`
	Devices  int `json:"devices"`
	Entities int `json:"entities"`
}

// EntityPreview is one row of a rename preview: the entity as it is
// now and the name the hierarchy would compute for it.
type EntityPreview struct {
	RegistryID      string `json:"registry_id"`
	EntityID        string `json:"entity_id"`
	NewEntityID     string `json:"new_entity_id"`
	NewFriendlyName string `json:"new_friendly_name"`
	NeedsRename     bool   `json:"needs_rename"`
}

// EntityRenameResult is the outcome of a single entity rename.
type EntityRenameResult struct {
	RegistryID   string `json:"registry_id"`
	OldEntityID  string `json:"old_entity_id"`
	NewEntityID  string `json:"new_entity_id"`
	FriendlyName string `json:"friendly_name"`
	IDChanged    bool   `json:"id_changed"`

	// Dependencies is set when the entity id changed and references in
	// scenes, scripts and automations were rewritten.
	Dependencies *depend.Result `json:"dependencies,omitempty"`
}

// CascadeItem is the outcome for one entity affected by an area or
// device rename.
type CascadeItem struct {
	RegistryID   string `json:"registry_id"`
	OldEntityID  string `json:"old_entity_id"`
	NewEntityID  string `json:"new_entity_id"`
	FriendlyName string `json:"friendly_name"`
	IDChanged    bool   `json:"id_changed"`
	Error        string `json:"error,omitempty"`

	Dependencies *depend.Result `json:"dependencies,omitempty"`
}

// CascadeResult is the itemised outcome of an area or device rename.
// Failed entities do not abort the cascade; every affected entity is
// attempted.
type CascadeResult struct {
	ID        string        `json:"id"`
	NewName   string        `json:"new_name"`
	Items     []CascadeItem `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// FixResult is the outcome of repairing broken references.
type FixResult struct {
	OldEntityID string        `json:"old_entity_id"`
	NewEntityID string        `json:"new_entity_id"`
	References  int           `json:"references"`
	Result      depend.Result `json:"result"`
}
