package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/registry-restructurer/internal/depend"
	"github.com/nerrad567/registry-restructurer/internal/refcheck"
)

// Store wraps the platform's REST endpoints for states and the
// automation, scene and script configuration documents. It satisfies
// refcheck.DocumentSource and depend.DocumentStore.
type Store struct {
	baseURL string
	token   string
	client  *http.Client
	logger  Logger
}

// NewStore creates a document store for the given base URL
// (http://host:8123) and long-lived access token.
func NewStore(baseURL, token string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// stateJSON is the wire shape of one entry in /api/states.
type stateJSON struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// States returns every entity state with its attributes.
func (s *Store) States(ctx context.Context) ([]depend.State, error) {
	var raw []stateJSON
	if err := s.getJSON(ctx, "/api/states", &raw); err != nil {
		return nil, err
	}

	states := make([]depend.State, len(raw))
	for i, st := range raw {
		states[i] = depend.State{EntityID: st.EntityID, Attributes: st.Attributes}
	}
	return states, nil
}

// EntityStates returns the entity universe for reference checking.
func (s *Store) EntityStates(ctx context.Context) ([]refcheck.EntityDetail, error) {
	var raw []stateJSON
	if err := s.getJSON(ctx, "/api/states", &raw); err != nil {
		return nil, err
	}

	details := make([]refcheck.EntityDetail, len(raw))
	for i, st := range raw {
		domain, _, _ := strings.Cut(st.EntityID, ".")
		friendly, _ := st.Attributes["friendly_name"].(string)
		if friendly == "" {
			friendly = st.EntityID
		}
		deviceClass, _ := st.Attributes["device_class"].(string)
		details[i] = refcheck.EntityDetail{
			EntityID:     st.EntityID,
			FriendlyName: friendly,
			Domain:       domain,
			DeviceClass:  deviceClass,
		}
	}
	return details, nil
}

// AutomationConfigs fetches every automation document. Individual
// fetch failures are logged and skipped so one broken document does
// not hide the rest.
func (s *Store) AutomationConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	return s.documentsByNumericID(ctx, "automation.", "/api/config/automation/config/")
}

// SceneConfigs fetches every scene document.
func (s *Store) SceneConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	return s.documentsByNumericID(ctx, "scene.", "/api/config/scene/config/")
}

// ScriptConfigs fetches every script document. Scripts are addressed
// by the object part of their entity ID, not a numeric ID.
func (s *Store) ScriptConfigs(ctx context.Context) ([]refcheck.ConfigDocument, error) {
	var raw []stateJSON
	if err := s.getJSON(ctx, "/api/states", &raw); err != nil {
		return nil, err
	}

	var docs []refcheck.ConfigDocument
	for _, st := range raw {
		if !strings.HasPrefix(st.EntityID, "script.") {
			continue
		}
		objectID := strings.TrimPrefix(st.EntityID, "script.")

		var config map[string]any
		if err := s.getJSON(ctx, "/api/config/script/config/"+objectID, &config); err != nil {
			s.logger.Warn("fetching script config", "script", st.EntityID, "error", err)
			continue
		}
		docs = append(docs, refcheck.ConfigDocument{
			EntityID: st.EntityID,
			Name:     friendlyNameOf(st),
			Config:   config,
		})
	}
	return docs, nil
}

func (s *Store) documentsByNumericID(ctx context.Context, prefix, configPath string) ([]refcheck.ConfigDocument, error) {
	var raw []stateJSON
	if err := s.getJSON(ctx, "/api/states", &raw); err != nil {
		return nil, err
	}

	var docs []refcheck.ConfigDocument
	for _, st := range raw {
		if !strings.HasPrefix(st.EntityID, prefix) {
			continue
		}
		numericID, _ := st.Attributes["id"].(string)
		if numericID == "" {
			continue
		}

		var config map[string]any
		if err := s.getJSON(ctx, configPath+numericID, &config); err != nil {
			s.logger.Warn("fetching document config", "document", st.EntityID, "error", err)
			continue
		}
		docs = append(docs, refcheck.ConfigDocument{
			EntityID:  st.EntityID,
			NumericID: numericID,
			Name:      friendlyNameOf(st),
			Config:    config,
		})
	}
	return docs, nil
}

// SceneConfig fetches one scene document by numeric ID.
func (s *Store) SceneConfig(ctx context.Context, numericID string) (map[string]any, error) {
	var config map[string]any
	if err := s.getJSON(ctx, "/api/config/scene/config/"+numericID, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveSceneConfig persists one scene document.
func (s *Store) SaveSceneConfig(ctx context.Context, numericID string, config map[string]any) error {
	return s.postJSON(ctx, "/api/config/scene/config/"+numericID, config)
}

// ScriptConfig fetches one script document by object ID.
func (s *Store) ScriptConfig(ctx context.Context, objectID string) (map[string]any, error) {
	var config map[string]any
	if err := s.getJSON(ctx, "/api/config/script/config/"+objectID, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveScriptConfig persists one script document.
func (s *Store) SaveScriptConfig(ctx context.Context, objectID string, config map[string]any) error {
	return s.postJSON(ctx, "/api/config/script/config/"+objectID, config)
}

// AutomationConfig fetches one automation document by numeric ID.
func (s *Store) AutomationConfig(ctx context.Context, numericID string) (map[string]any, error) {
	var config map[string]any
	if err := s.getJSON(ctx, "/api/config/automation/config/"+numericID, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveAutomationConfig persists one automation document.
func (s *Store) SaveAutomationConfig(ctx context.Context, numericID string, config map[string]any) error {
	return s.postJSON(ctx, "/api/config/automation/config/"+numericID, config)
}

func (s *Store) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrExternalCall, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrExternalCall, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: GET %s: status %d", ErrExternalCall, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrExternalCall, path, err)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrExternalCall, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %v", ErrExternalCall, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Body drained below

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: POST %s: status %d", ErrExternalCall, path, resp.StatusCode)
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrExternalCall, path, err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("%w: POST %s: result %q", ErrExternalCall, path, result.Result)
	}
	return nil
}

func friendlyNameOf(st stateJSON) string {
	if name, ok := st.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return st.EntityID
}
