package depend

import (
	"context"
	"errors"
	"testing"
)

// mockStore is an in-memory DocumentStore.
type mockStore struct {
	states      []State
	scenes      map[string]map[string]any
	scripts     map[string]map[string]any
	automations map[string]map[string]any

	sceneSaveErr error

	savedScenes      map[string]map[string]any
	savedScripts     map[string]map[string]any
	savedAutomations map[string]map[string]any
}

func newMockStore() *mockStore {
	return &mockStore{
		scenes:           make(map[string]map[string]any),
		scripts:          make(map[string]map[string]any),
		automations:      make(map[string]map[string]any),
		savedScenes:      make(map[string]map[string]any),
		savedScripts:     make(map[string]map[string]any),
		savedAutomations: make(map[string]map[string]any),
	}
}

func (m *mockStore) States(context.Context) ([]State, error) {
	return m.states, nil
}

func (m *mockStore) SceneConfig(_ context.Context, numericID string) (map[string]any, error) {
	c, ok := m.scenes[numericID]
	if !ok {
		return nil, errors.New("scene not found")
	}
	return c, nil
}

func (m *mockStore) SaveSceneConfig(_ context.Context, numericID string, config map[string]any) error {
	if m.sceneSaveErr != nil {
		return m.sceneSaveErr
	}
	m.savedScenes[numericID] = config
	return nil
}

func (m *mockStore) ScriptConfig(_ context.Context, objectID string) (map[string]any, error) {
	c, ok := m.scripts[objectID]
	if !ok {
		return nil, errors.New("script not found")
	}
	return c, nil
}

func (m *mockStore) SaveScriptConfig(_ context.Context, objectID string, config map[string]any) error {
	m.savedScripts[objectID] = config
	return nil
}

func (m *mockStore) AutomationConfig(_ context.Context, numericID string) (map[string]any, error) {
	c, ok := m.automations[numericID]
	if !ok {
		return nil, errors.New("automation not found")
	}
	return c, nil
}

func (m *mockStore) SaveAutomationConfig(_ context.Context, numericID string, config map[string]any) error {
	m.savedAutomations[numericID] = config
	return nil
}

const (
	oldID = "light.buro_lampe"
	newID = "light.buro_deckenlampe"
)

func testStore() *mockStore {
	store := newMockStore()

	store.states = []State{
		{
			EntityID: "scene.movie_night",
			Attributes: map[string]any{
				"id":        "sc1",
				"entity_id": []any{oldID, "light.wohnzimmer"},
			},
		},
		{
			EntityID: "scene.unrelated",
			Attributes: map[string]any{
				"id":        "sc2",
				"entity_id": []any{"light.wohnzimmer"},
			},
		},
		{
			EntityID: "script.good_night",
			Attributes: map[string]any{
				"sequence": []any{map[string]any{"entity_id": oldID}},
			},
		},
		{
			EntityID:   "automation.morning",
			Attributes: map[string]any{"id": "au1"},
		},
		{
			EntityID:   "automation.unrelated",
			Attributes: map[string]any{"id": "au2"},
		},
	}

	store.scenes["sc1"] = map[string]any{
		"id": "sc1",
		"entities": map[string]any{
			oldID:              map[string]any{"state": "on", "brightness": 120},
			"light.wohnzimmer": map[string]any{"state": "off"},
		},
	}

	store.scripts["good_night"] = map[string]any{
		"sequence": []any{
			map[string]any{"service": "light.turn_off", "entity_id": oldID},
		},
	}

	store.automations["au1"] = map[string]any{
		"trigger": []any{
			map[string]any{"platform": "state", "entity_id": oldID},
		},
	}
	store.automations["au2"] = map[string]any{
		"trigger": []any{
			map[string]any{"platform": "state", "entity_id": "sun.sun"},
		},
	}

	return store
}

func TestUpdateAllPropagates(t *testing.T) {
	store := testStore()
	updater := NewUpdater(store)

	result, err := updater.UpdateAll(context.Background(), oldID, newID, nil)
	if err != nil {
		t.Fatalf("UpdateAll() error = %v", err)
	}

	if result.TotalSuccess != 3 || result.TotalFailed != 0 {
		t.Fatalf("result = %d success, %d failed, want 3/0: %+v",
			result.TotalSuccess, result.TotalFailed, result)
	}

	// Scene: member entry moved to the new key, config preserved.
	saved := store.savedScenes["sc1"]
	entities := saved["entities"].(map[string]any)
	if _, ok := entities[oldID]; ok {
		t.Error("old entity key still present in scene")
	}
	entry, ok := entities[newID].(map[string]any)
	if !ok {
		t.Fatal("new entity key missing in scene")
	}
	if entry["brightness"] != 120 {
		t.Errorf("scene entry config lost: %+v", entry)
	}

	// Script: entity_id value rewritten.
	step := store.savedScripts["good_night"]["sequence"].([]any)[0].(map[string]any)
	if step["entity_id"] != newID {
		t.Errorf("script entity_id = %v, want %q", step["entity_id"], newID)
	}

	// Automation: referencing doc rewritten, unrelated one untouched.
	trigger := store.savedAutomations["au1"]["trigger"].([]any)[0].(map[string]any)
	if trigger["entity_id"] != newID {
		t.Errorf("automation entity_id = %v, want %q", trigger["entity_id"], newID)
	}
	if _, ok := store.savedAutomations["au2"]; ok {
		t.Error("non-referencing automation was persisted")
	}
}

func TestUpdateAllPartialFailure(t *testing.T) {
	store := testStore()
	store.sceneSaveErr = errors.New("write rejected")
	updater := NewUpdater(store)

	result, err := updater.UpdateAll(context.Background(), oldID, newID, nil)
	if err != nil {
		t.Fatalf("UpdateAll() error = %v", err)
	}

	if result.TotalSuccess != 2 || result.TotalFailed != 1 {
		t.Fatalf("result = %d success, %d failed, want 2/1", result.TotalSuccess, result.TotalFailed)
	}
	if len(result.Scenes.Failed) != 1 || result.Scenes.Failed[0] != "scene.movie_night" {
		t.Errorf("Scenes.Failed = %v, want [scene.movie_night]", result.Scenes.Failed)
	}
	if len(result.Scripts.Success) != 1 || len(result.Automations.Success) != 1 {
		t.Errorf("scripts/automations = %+v / %+v, want one success each",
			result.Scripts, result.Automations)
	}
}

func TestUpdateAllUsesCachedStates(t *testing.T) {
	store := testStore()
	cached := store.states
	store.states = nil // fetching would find nothing

	updater := NewUpdater(store)
	result, err := updater.UpdateAll(context.Background(), oldID, newID, cached)
	if err != nil {
		t.Fatalf("UpdateAll() error = %v", err)
	}
	if result.TotalSuccess != 3 {
		t.Errorf("TotalSuccess = %d, want 3 from cached states", result.TotalSuccess)
	}
}

func TestUpdateAllNoReferences(t *testing.T) {
	store := testStore()
	updater := NewUpdater(store)

	result, err := updater.UpdateAll(context.Background(), "light.nirgendwo", "light.anderswo", nil)
	if err != nil {
		t.Fatalf("UpdateAll() error = %v", err)
	}
	if result.TotalSuccess != 0 || result.TotalFailed != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
	if len(store.savedScenes)+len(store.savedScripts)+len(store.savedAutomations) != 0 {
		t.Error("documents persisted despite no references")
	}
}
