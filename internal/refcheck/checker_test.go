package refcheck

import (
	"context"
	"errors"
	"testing"
)

// mockSource is an in-memory DocumentSource.
type mockSource struct {
	states      []EntityDetail
	automations []ConfigDocument
	scenes      []ConfigDocument
	scripts     []ConfigDocument

	statesErr error
	sceneErr  error

	stateCalls int
}

func (m *mockSource) EntityStates(context.Context) ([]EntityDetail, error) {
	m.stateCalls++
	if m.statesErr != nil {
		return nil, m.statesErr
	}
	return m.states, nil
}

func (m *mockSource) AutomationConfigs(context.Context) ([]ConfigDocument, error) {
	return m.automations, nil
}

func (m *mockSource) SceneConfigs(context.Context) ([]ConfigDocument, error) {
	if m.sceneErr != nil {
		return nil, m.sceneErr
	}
	return m.scenes, nil
}

func (m *mockSource) ScriptConfigs(context.Context) ([]ConfigDocument, error) {
	return m.scripts, nil
}

func testSource() *mockSource {
	return &mockSource{
		states: []EntityDetail{
			{EntityID: "light.buro_lampe", FriendlyName: "Büro Lampe", Domain: "light"},
			{EntityID: "light.buro_lampe_2", FriendlyName: "Büro Lampe 2", Domain: "light"},
			{EntityID: "switch.garten_steckdose", FriendlyName: "Garten Steckdose", Domain: "switch"},
		},
		automations: []ConfigDocument{
			{
				EntityID:  "automation.morning",
				NumericID: "1690000000001",
				Name:      "Morning Routine",
				Config: map[string]any{
					"trigger": []any{
						map[string]any{"platform": "state", "entity_id": "light.schlafzimmer_alt"},
					},
					"actions": []any{
						map[string]any{"target": map[string]any{"entity_id": "light.buro_lampe"}},
					},
				},
			},
		},
		scenes: []ConfigDocument{
			{
				EntityID:  "scene.movie_night",
				NumericID: "1690000000002",
				Name:      "Movie Night",
				Config: map[string]any{
					"entities": map[string]any{
						"light.buro_lampe":   map[string]any{"state": "off"},
						"light.wohnzimmer_x": map[string]any{"state": "on"},
					},
				},
			},
		},
		scripts: []ConfigDocument{
			{
				EntityID: "script.good_night",
				Name:     "Good Night",
				Config: map[string]any{
					"sequence": []any{
						map[string]any{"target": map[string]any{"entity_id": "switch.flur_alt"}},
					},
				},
			},
		},
	}
}

func TestScanAllFindsBrokenReferences(t *testing.T) {
	source := testSource()
	checker := NewChecker(source)

	broken, err := checker.ScanAll(context.Background(), false, map[string]string{
		"automation.morning": "area_schlafzimmer",
	})
	if err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	want := []BrokenReference{
		{
			ConfigType:      "automation",
			ConfigID:        "automation.morning",
			ConfigName:      "Morning Routine",
			MissingEntityID: "light.schlafzimmer_alt",
			Context:         "trigger",
			NumericID:       "1690000000001",
			AreaID:          "area_schlafzimmer",
			Path:            "trigger[0] -> entity_id",
		},
		{
			ConfigType:      "scene",
			ConfigID:        "scene.movie_night",
			ConfigName:      "Movie Night",
			MissingEntityID: "light.wohnzimmer_x",
			Context:         "entity",
			NumericID:       "1690000000002",
			Path:            "entities",
		},
		{
			ConfigType:      "script",
			ConfigID:        "script.good_night",
			ConfigName:      "Good Night",
			MissingEntityID: "switch.flur_alt",
			Context:         "action",
			Path:            "sequence[0] -> target -> entity_id",
		},
	}

	if len(broken) != len(want) {
		t.Fatalf("ScanAll() = %d references, want %d: %+v", len(broken), len(want), broken)
	}
	for i, w := range want {
		if broken[i] != w {
			t.Errorf("broken[%d] = %+v, want %+v", i, broken[i], w)
		}
	}
}

func TestScanAllCaching(t *testing.T) {
	source := testSource()
	checker := NewChecker(source)
	ctx := context.Background()

	first, err := checker.ScanAll(ctx, false, nil)
	if err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	// Registry changes are invisible until invalidation.
	source.states = append(source.states, EntityDetail{
		EntityID: "light.wohnzimmer_x", Domain: "light",
	})

	cached, err := checker.ScanAll(ctx, true, nil)
	if err != nil {
		t.Fatalf("ScanAll(cached) error = %v", err)
	}
	if len(cached) != len(first) {
		t.Errorf("cached scan = %d references, want %d", len(cached), len(first))
	}

	checker.Invalidate()

	fresh, err := checker.ScanAll(ctx, true, nil)
	if err != nil {
		t.Fatalf("ScanAll(fresh) error = %v", err)
	}
	if len(fresh) != len(first)-1 {
		t.Errorf("fresh scan = %d references, want %d", len(fresh), len(first)-1)
	}
}

func TestScanAllStatesFailureAborts(t *testing.T) {
	source := testSource()
	source.statesErr = errors.New("connection refused")
	checker := NewChecker(source)

	if _, err := checker.ScanAll(context.Background(), false, nil); err == nil {
		t.Error("ScanAll() error = nil, want error when entity universe unavailable")
	}
}

func TestScanAllSceneFailureIsBestEffort(t *testing.T) {
	source := testSource()
	source.sceneErr = errors.New("service unavailable")
	checker := NewChecker(source)

	broken, err := checker.ScanAll(context.Background(), false, nil)
	if err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	// Automation and script findings survive the scene failure.
	kinds := make(map[string]int)
	for _, ref := range broken {
		kinds[ref.ConfigType]++
	}
	if kinds["automation"] != 1 || kinds["script"] != 1 || kinds["scene"] != 0 {
		t.Errorf("kinds = %v, want automation and script only", kinds)
	}
}

func TestSuggestRanksSameDomainOnly(t *testing.T) {
	source := testSource()
	checker := NewChecker(source)

	suggestions, err := checker.Suggest(context.Background(), "light.buro_lampe_alt", 0)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("Suggest() = %d suggestions, want 2: %+v", len(suggestions), suggestions)
	}
	if suggestions[0].Score < suggestions[1].Score {
		t.Error("suggestions not sorted by descending score")
	}
	for _, s := range suggestions {
		if s.Score < minSuggestionScore {
			t.Errorf("suggestion %q below threshold: %v", s.EntityID, s.Score)
		}
		if got, _, _ := cutDomain(s.EntityID); got != "light" {
			t.Errorf("suggestion %q crosses domains", s.EntityID)
		}
	}
}

func TestSuggestLimit(t *testing.T) {
	source := testSource()
	checker := NewChecker(source)

	suggestions, err := checker.Suggest(context.Background(), "light.buro_lampe_alt", 1)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(suggestions) != 1 {
		t.Errorf("Suggest(limit=1) = %d suggestions, want 1", len(suggestions))
	}
}

func TestAllEntitiesSorted(t *testing.T) {
	source := testSource()
	checker := NewChecker(source)

	entities, err := checker.AllEntities(context.Background())
	if err != nil {
		t.Fatalf("AllEntities() error = %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("AllEntities() = %d entities, want 3", len(entities))
	}
	for i := 1; i < len(entities); i++ {
		if entities[i-1].EntityID > entities[i].EntityID {
			t.Errorf("entities not sorted at index %d", i)
		}
	}

	// The universe is fetched once and cached.
	if _, err := checker.AllEntities(context.Background()); err != nil {
		t.Fatalf("AllEntities() second call error = %v", err)
	}
	if source.stateCalls != 1 {
		t.Errorf("state fetches = %d, want 1", source.stateCalls)
	}
}

func TestClassifyContext(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"trigger -> entity_id", "trigger"},
		{"triggers[0] -> entity_id", "trigger"},
		{"condition[1] -> entity_id", "condition"},
		{"use_blueprint -> input -> motion_trigger -> entity_id", "trigger"},
		{"use_blueprint -> input -> extra_condition", "condition"},
		{"sequence -> target -> entity_id", "action"},
		{"(root)", "action"},
	}

	for _, tt := range tests {
		if got := classifyContext(tt.path); got != tt.want {
			t.Errorf("classifyContext(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func cutDomain(entityID string) (domain, object string, ok bool) {
	for i := 0; i < len(entityID); i++ {
		if entityID[i] == '.' {
			return entityID[:i], entityID[i+1:], true
		}
	}
	return "", "", false
}
