package depend

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/registry-restructurer/internal/refs"
)

// automationFetchLimit bounds concurrent automation config fetches so
// a large installation does not flood the platform API.
const automationFetchLimit = 4

// Logger defines the logging interface used by the Updater.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// State is one platform entity state with its attributes. Scene
// states list their member entities; scene and automation states
// carry the numeric document ID under "id".
type State struct {
	EntityID   string         `json:"entity_id"`
	Attributes map[string]any `json:"attributes"`
}

// DocumentStore reads and writes the configuration documents renames
// propagate into. The platform client implements it.
type DocumentStore interface {
	States(ctx context.Context) ([]State, error)

	SceneConfig(ctx context.Context, numericID string) (map[string]any, error)
	SaveSceneConfig(ctx context.Context, numericID string, config map[string]any) error

	ScriptConfig(ctx context.Context, objectID string) (map[string]any, error)
	SaveScriptConfig(ctx context.Context, objectID string, config map[string]any) error

	AutomationConfig(ctx context.Context, numericID string) (map[string]any, error)
	SaveAutomationConfig(ctx context.Context, numericID string, config map[string]any) error
}

// KindResult lists the documents of one kind that were updated and
// those that could not be.
type KindResult struct {
	Success []string `json:"success"`
	Failed  []string `json:"failed"`
}

// Result is the outcome of one propagation run.
type Result struct {
	Scenes       KindResult `json:"scenes"`
	Scripts      KindResult `json:"scripts"`
	Automations  KindResult `json:"automations"`
	TotalSuccess int        `json:"total_success"`
	TotalFailed  int        `json:"total_failed"`
}

// Updater rewrites entity references in scenes, scripts and
// automations after a rename.
type Updater struct {
	store  DocumentStore
	logger Logger
}

// NewUpdater creates an updater over the given document store.
func NewUpdater(store DocumentStore) *Updater {
	return &Updater{store: store, logger: noopLogger{}}
}

// SetLogger sets the logger for the updater.
func (u *Updater) SetLogger(logger Logger) {
	u.logger = logger
}

// UpdateAll rewrites every reference to oldID with newID across all
// document kinds. cachedStates avoids a refetch when the caller holds
// fresh states; pass nil to fetch.
//
// The returned Result itemizes successes and failures per kind. An
// error is returned only when the states themselves cannot be
// loaded; individual document failures are recorded, not raised.
func (u *Updater) UpdateAll(ctx context.Context, oldID, newID string, cachedStates []State) (Result, error) {
	u.logger.Info("updating dependencies", "old", oldID, "new", newID)

	states := cachedStates
	if states == nil {
		var err error
		states, err = u.store.States(ctx)
		if err != nil {
			return Result{}, err
		}
	}

	var result Result

	record := func(kind *KindResult, docID string, ok bool) {
		if ok {
			kind.Success = append(kind.Success, docID)
			result.TotalSuccess++
		} else {
			kind.Failed = append(kind.Failed, docID)
			result.TotalFailed++
		}
	}

	var automations []State

	for _, state := range states {
		switch {
		case strings.HasPrefix(state.EntityID, "scene."):
			if !sceneReferences(state, oldID) {
				continue
			}
			numericID, _ := state.Attributes["id"].(string)
			if numericID == "" {
				continue
			}
			record(&result.Scenes, state.EntityID, u.updateScene(ctx, state.EntityID, numericID, oldID, newID))

		case strings.HasPrefix(state.EntityID, "script."):
			if !attributesMention(state.Attributes, oldID) {
				continue
			}
			record(&result.Scripts, state.EntityID, u.updateScript(ctx, state.EntityID, oldID, newID))

		case strings.HasPrefix(state.EntityID, "automation."):
			automations = append(automations, state)
		}
	}

	// Automation states don't expose their references; each config
	// must be fetched to know whether it mentions the old ID. Bound
	// the fan-out and collect outcomes under a lock.
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(automationFetchLimit)

	for _, state := range automations {
		numericID, _ := state.Attributes["id"].(string)
		if numericID == "" {
			u.logger.Debug("automation has no numeric id", "entity_id", state.EntityID)
			continue
		}

		group.Go(func() error {
			changed, referenced := u.updateAutomation(groupCtx, state.EntityID, numericID, oldID, newID)
			if referenced {
				mu.Lock()
				record(&result.Automations, state.EntityID, changed)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return result, err
	}

	sort.Strings(result.Scenes.Success)
	sort.Strings(result.Scenes.Failed)
	sort.Strings(result.Scripts.Success)
	sort.Strings(result.Scripts.Failed)
	sort.Strings(result.Automations.Success)
	sort.Strings(result.Automations.Failed)

	u.logger.Info("dependency update complete",
		"old", oldID, "new", newID,
		"success", result.TotalSuccess, "failed", result.TotalFailed,
	)
	return result, nil
}

// updateScene moves the scene's member entry from the old entity ID
// key to the new one and persists the document.
func (u *Updater) updateScene(ctx context.Context, sceneID, numericID, oldID, newID string) bool {
	config, err := u.store.SceneConfig(ctx, numericID)
	if err != nil {
		u.logger.Error("fetching scene config", "scene", sceneID, "error", err)
		return false
	}

	entities, _ := config["entities"].(map[string]any)
	entry, ok := entities[oldID]
	if !ok {
		return false
	}

	delete(entities, oldID)
	entities[newID] = entry

	u.logger.Info("updating scene", "scene", sceneID, "old", oldID, "new", newID)
	if err := u.store.SaveSceneConfig(ctx, numericID, config); err != nil {
		u.logger.Error("saving scene config", "scene", sceneID, "error", err)
		return false
	}
	return true
}

// updateScript rewrites references in a script document and persists
// it only when something changed.
func (u *Updater) updateScript(ctx context.Context, scriptID, oldID, newID string) bool {
	objectID := strings.TrimPrefix(scriptID, "script.")

	config, err := u.store.ScriptConfig(ctx, objectID)
	if err != nil {
		u.logger.Error("fetching script config", "script", scriptID, "error", err)
		return false
	}

	doc := refs.FromAny(config)
	if !refs.Replace(doc, oldID, newID) {
		return false
	}

	updated, _ := doc.ToAny().(map[string]any)
	u.logger.Info("updating script", "script", scriptID, "old", oldID, "new", newID)
	if err := u.store.SaveScriptConfig(ctx, objectID, updated); err != nil {
		u.logger.Error("saving script config", "script", scriptID, "error", err)
		return false
	}
	return true
}

// updateAutomation fetches an automation config, and when it mentions
// the old ID, rewrites and persists it. The second return reports
// whether the document referenced the old ID at all; only referencing
// documents count towards the result.
func (u *Updater) updateAutomation(ctx context.Context, automationID, numericID, oldID, newID string) (ok, referenced bool) {
	config, err := u.store.AutomationConfig(ctx, numericID)
	if err != nil {
		u.logger.Error("fetching automation config", "automation", automationID, "error", err)
		return false, false
	}

	if !attributesMention(config, oldID) {
		return false, false
	}

	doc := refs.FromAny(config)
	if !refs.Replace(doc, oldID, newID) {
		// Mentioned only in a position the rewrite rules leave alone,
		// such as a non-template string. Count it as failed so the
		// operator can fix it by hand.
		u.logger.Warn("automation mentions entity outside rewritable positions",
			"automation", automationID, "entity", oldID)
		return false, true
	}

	updated, _ := doc.ToAny().(map[string]any)
	u.logger.Info("updating automation", "automation", automationID, "old", oldID, "new", newID)
	if err := u.store.SaveAutomationConfig(ctx, numericID, updated); err != nil {
		u.logger.Error("saving automation config", "automation", automationID, "error", err)
		return false, true
	}
	return true, true
}

// sceneReferences reports whether a scene state lists the entity
// among its members.
func sceneReferences(state State, entityID string) bool {
	members, _ := state.Attributes["entity_id"].([]any)
	for _, m := range members {
		if s, ok := m.(string); ok && s == entityID {
			return true
		}
	}
	return false
}

// attributesMention reports whether the serialized form of a document
// contains the entity ID anywhere. Cheap pre-filter before the full
// tree rewrite.
func attributesMention(data map[string]any, entityID string) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return strings.Contains(string(raw), entityID)
}
