package refs

import (
	"reflect"
	"testing"
)

func TestReplaceEntityIDString(t *testing.T) {
	doc := FromAny(map[string]any{
		"entity_id": "light.old",
		"brightness": 255,
	})

	if !Replace(doc, "light.old", "light.new") {
		t.Fatal("Replace reported no change")
	}

	got := doc.ToAny().(map[string]any)
	if got["entity_id"] != "light.new" {
		t.Errorf("entity_id = %v, want light.new", got["entity_id"])
	}
}

func TestReplaceEntityIDList(t *testing.T) {
	doc := FromAny(map[string]any{
		"entity_id": []any{"light.old", "light.other"},
	})

	if !Replace(doc, "light.old", "light.new") {
		t.Fatal("Replace reported no change")
	}

	got := doc.ToAny().(map[string]any)
	want := []any{"light.new", "light.other"}
	if !reflect.DeepEqual(got["entity_id"], want) {
		t.Errorf("entity_id = %v, want %v", got["entity_id"], want)
	}
}

func TestReplaceInsideTemplate(t *testing.T) {
	doc := FromAny(map[string]any{
		"value_template": "state is {{ states('light.old') }}",
	})

	if !Replace(doc, "light.old", "light.new") {
		t.Fatal("Replace reported no change")
	}

	got := doc.ToAny().(map[string]any)
	want := "state is {{ states('light.new') }}"
	if got["value_template"] != want {
		t.Errorf("value_template = %q, want %q", got["value_template"], want)
	}
}

func TestReplaceLeavesPlainProse(t *testing.T) {
	doc := FromAny(map[string]any{
		"description": "controls light.old in the hallway",
	})

	if Replace(doc, "light.old", "light.new") {
		t.Fatal("Replace rewrote plain prose outside template delimiters")
	}

	got := doc.ToAny().(map[string]any)
	if got["description"] != "controls light.old in the hallway" {
		t.Errorf("description was modified: %q", got["description"])
	}
}

func TestReplaceNested(t *testing.T) {
	doc := FromAny(map[string]any{
		"action": "call",
		"sequence": []any{
			map[string]any{
				"service":   "light.turn_on",
				"entity_id": "light.old",
			},
			map[string]any{
				"condition": map[string]any{
					"entity_id": []any{"light.old"},
				},
			},
		},
	})

	if !Replace(doc, "light.old", "light.new") {
		t.Fatal("Replace reported no change")
	}

	got := ExtractFromAny(doc.ToAny())
	if _, stale := got["light.old"]; stale {
		t.Errorf("stale reference remains after Replace: %v", got)
	}
	if _, ok := got["light.new"]; !ok {
		t.Errorf("replacement reference missing: %v", got)
	}
}

func TestReplaceNoMatch(t *testing.T) {
	doc := FromAny(map[string]any{
		"entity_id": "light.other",
	})

	if Replace(doc, "light.old", "light.new") {
		t.Error("Replace reported change for unrelated document")
	}
}

func TestNodeRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":   "Test",
		"count":  float64(3),
		"active": true,
		"items":  []any{"a", float64(1), map[string]any{"k": "v"}},
	}

	got := FromAny(original).ToAny()
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, original)
	}
}
