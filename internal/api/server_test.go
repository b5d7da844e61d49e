package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerrad567/registry-restructurer/internal/depend"
	"github.com/nerrad567/registry-restructurer/internal/hierarchy"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/config"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/logging"
	"github.com/nerrad567/registry-restructurer/internal/overrides"
	"github.com/nerrad567/registry-restructurer/internal/refcheck"
	"github.com/nerrad567/registry-restructurer/internal/registry"
	"github.com/nerrad567/registry-restructurer/internal/restructure"
	"github.com/nerrad567/registry-restructurer/internal/typemap"
)

const testToken = "test-api-token"

// =============================================================================
// Mocks
// =============================================================================

type stubRegistry struct{}

func (stubRegistry) ListAreas(ctx context.Context) ([]registry.Area, error) {
	return []registry.Area{{AreaID: "area_office", Name: "Büro"}}, nil
}

func (stubRegistry) ListDevices(ctx context.Context) ([]registry.Device, error) {
	name := "Büro Homepod"
	areaID := "area_office"
	return []registry.Device{{ID: "dev_homepod", Name: &name, AreaID: &areaID}}, nil
}

func (stubRegistry) ListEntities(ctx context.Context) ([]registry.Entity, error) {
	deviceID := "dev_homepod"
	friendly := "Büro Homepod Lautstärke"
	return []registry.Entity{{
		EntityID: "media_player.homepod_volume_old",
		ID:       "reg_volume",
		DeviceID: &deviceID,
		Name:     &friendly,
	}}, nil
}

func (stubRegistry) UpdateArea(ctx context.Context, areaID, name string) error { return nil }

func (stubRegistry) UpdateDevice(ctx context.Context, deviceID, name string) error { return nil }

func (stubRegistry) UpdateEntity(ctx context.Context, entityID string, update registry.EntityUpdate) (*registry.Entity, error) {
	return &registry.Entity{EntityID: entityID}, nil
}

func (stubRegistry) RenameEntity(ctx context.Context, oldEntityID, newEntityID, friendlyName string) (*registry.Entity, error) {
	return &registry.Entity{EntityID: newEntityID}, nil
}

func (stubRegistry) RemoveEntity(ctx context.Context, entityID string) error { return nil }

type stubSource struct{}

func (stubSource) EntityStates(ctx context.Context) ([]refcheck.EntityDetail, error) {
	return []refcheck.EntityDetail{
		{EntityID: "light.buro_lampe", FriendlyName: "Büro Lampe", Domain: "light"},
	}, nil
}

func (stubSource) AutomationConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	return []refcheck.ConfigDocument{{
		EntityID:  "automation.morning",
		NumericID: "au1",
		Name:      "Morning",
		Config: map[string]any{
			"trigger": []any{
				map[string]any{"platform": "state", "entity_id": "light.ghost"},
			},
		},
	}}, nil
}

func (stubSource) SceneConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	return nil, nil
}

func (stubSource) ScriptConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	return nil, nil
}

type stubUpdater struct{}

func (stubUpdater) UpdateAll(ctx context.Context, oldID, newID string, cached []depend.State) (depend.Result, error) {
	return depend.Result{
		Automations:  depend.KindResult{Success: []string{"automation.morning"}},
		TotalSuccess: 1,
	}, nil
}

type memOverrides struct {
	data map[string]overrides.Override
}

func (m *memOverrides) Get(ctx context.Context, registryID string) (*overrides.Override, error) {
	o, ok := m.data[registryID]
	if !ok {
		return nil, overrides.ErrOverrideNotFound
	}
	return &o, nil
}

func (m *memOverrides) Set(ctx context.Context, registryID string, o overrides.Override) error {
	m.data[registryID] = o
	return nil
}

func (m *memOverrides) Delete(ctx context.Context, registryID string) error {
	delete(m.data, registryID)
	return nil
}

func (m *memOverrides) All(ctx context.Context) (map[string]overrides.Override, error) {
	return m.data, nil
}

func (m *memOverrides) Count(ctx context.Context) (int, error) { return len(m.data), nil }

type memTypemap struct {
	data map[string]string
}

func (m *memTypemap) Get(ctx context.Context, typeKey string) (string, error) {
	label, ok := m.data[typeKey]
	if !ok {
		return "", typemap.ErrMappingNotFound
	}
	return label, nil
}

func (m *memTypemap) Set(ctx context.Context, typeKey, label string) error {
	m.data[typeKey] = label
	return nil
}

func (m *memTypemap) Delete(ctx context.Context, typeKey string) error {
	if _, ok := m.data[typeKey]; !ok {
		return typemap.ErrMappingNotFound
	}
	delete(m.data, typeKey)
	return nil
}

func (m *memTypemap) All(ctx context.Context) (map[string]string, error) {
	return m.data, nil
}

// =============================================================================
// Fixture
// =============================================================================

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	translator, err := typemap.NewTranslator(ctx, &memTypemap{data: make(map[string]string)})
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	manager := hierarchy.NewManager(&memOverrides{data: make(map[string]overrides.Override)}, translator, "en")
	checker := refcheck.NewChecker(stubSource{})

	svc := restructure.NewService(restructure.Config{
		Registry:   stubRegistry{},
		Hierarchy:  manager,
		Checker:    checker,
		Updater:    stubUpdater{},
		Translator: translator,
		Language:   "en",
	})
	if _, err := svc.LoadStructure(ctx); err != nil {
		t.Fatalf("LoadStructure() error = %v", err)
	}

	server, err := New(Deps{
		Config: config.APIConfig{
			Host:  "127.0.0.1",
			Port:  0,
			Token: testToken,
		},
		Logger:  logging.New(config.LoggingConfig{Level: "error", Format: "json"}, "test"),
		Service: svc,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return server
}

// doRequest runs a request through the router with the test token.
func doRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	server.buildRouter().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

// =============================================================================
// Auth Tests
// =============================================================================

func TestHealthNoAuth(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	server.buildRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)
	router := server.buildRouter()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"not bearer", testToken, http.StatusUnauthorized},
		{"valid token", "Bearer " + testToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/structure", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

// =============================================================================
// Structure Tests
// =============================================================================

func TestGetStructure(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/structure", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	counts, ok := body["counts"].(map[string]any)
	if !ok {
		t.Fatalf("counts missing from response: %v", body)
	}
	if counts["entities"] != float64(1) {
		t.Errorf("entities count = %v, want 1", counts["entities"])
	}
}

func TestReloadStructure(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/structure/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetHierarchy(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/hierarchy/media_player.homepod_volume_old", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v1/hierarchy/light.unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown entity", rec.Code)
	}
}

// =============================================================================
// Preview and Rename Tests
// =============================================================================

func TestPreviewAll(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/previews", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestRenameArea(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/areas/area_office/rename",
		map[string]any{"name": "Office"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["succeeded"] != float64(1) {
		t.Errorf("succeeded = %v, want 1", body["succeeded"])
	}
}

func TestRenameAreaValidation(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/areas/area_office/rename",
		map[string]any{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty name", rec.Code)
	}

	rec = doRequest(t, server, http.MethodPost, "/api/v1/areas/area_ghost/rename",
		map[string]any{"name": "Office"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown area", rec.Code)
	}
}

func TestRenameEntity(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/entities/reg_volume/rename",
		map[string]any{"name": "Volume"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["new_entity_id"] != "media_player.buro_homepod_volume" {
		t.Errorf("new_entity_id = %v, want media_player.buro_homepod_volume", body["new_entity_id"])
	}
	if body["id_changed"] != true {
		t.Errorf("id_changed = %v, want true", body["id_changed"])
	}
}

func TestRenameEntityUnknown(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/entities/reg_ghost/rename",
		map[string]any{"name": "Volume"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// =============================================================================
// Reference Tests
// =============================================================================

func TestBrokenReferences(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/references/broken", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestSuggestionsRequireEntityID(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/references/suggestions", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without entity_id", rec.Code)
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v1/references/suggestions?entity_id=light.ghost", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestFixReference(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/references/fix",
		map[string]any{"old_entity_id": "light.ghost", "new_entity_id": "light.buro_lampe"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["references"] != float64(1) {
		t.Errorf("references = %v, want 1", body["references"])
	}
}

func TestFixReferenceValidation(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/references/fix",
		map[string]any{"old_entity_id": "", "new_entity_id": "light.buro_lampe"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing field", rec.Code)
	}

	rec = doRequest(t, server, http.MethodPost, "/api/v1/references/fix",
		map[string]any{"old_entity_id": "light.never_referenced", "new_entity_id": "light.buro_lampe"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unreferenced entity", rec.Code)
	}
}

// =============================================================================
// Type Mapping Tests
// =============================================================================

func TestTypeMappingLifecycle(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPut, "/api/v1/type-mappings/battery",
		map[string]any{"label": "Batterieladung"})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v1/type-mappings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/type-mappings/battery", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/type-mappings/battery", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rec.Code)
	}
}

func TestTypeMappingValidation(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPut, "/api/v1/type-mappings/battery",
		map[string]any{"label": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty label", rec.Code)
	}
}
