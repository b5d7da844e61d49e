package refcheck

import (
	"context"
	"sort"
	"strings"

	"github.com/nerrad567/registry-restructurer/internal/refs"
)

// Logger defines the logging interface used by the Checker.
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

// defaultSuggestionLimit caps suggestion lists when the caller does
// not specify a limit.
const defaultSuggestionLimit = 5

// Checker finds broken entity references in configuration documents.
type Checker struct {
	source DocumentSource
	cache  *Cache
	logger Logger
}

// NewChecker creates a reference checker over the given document
// source.
func NewChecker(source DocumentSource) *Checker {
	return &Checker{
		source: source,
		cache:  NewCache(),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the checker.
func (c *Checker) SetLogger(logger Logger) {
	c.logger = logger
}

// Invalidate discards all cached entity and scan state.
func (c *Checker) Invalidate() {
	c.cache.Invalidate()
	c.logger.Info("reference checker cache invalidated")
}

// ScanAll scans every automation, scene and script document and
// returns references to entities that do not exist. areaIDs
// optionally maps document entity IDs to their assigned area, used to
// annotate results; pass nil when unknown.
//
// With useCache true, a previous scan result is returned unchanged.
func (c *Checker) ScanAll(ctx context.Context, useCache bool, areaIDs map[string]string) ([]BrokenReference, error) {
	if useCache {
		if cached, ok := c.cache.BrokenRefs(); ok {
			c.logger.Debug("using cached broken references")
			return cached, nil
		}
	}

	existing, err := c.entityUniverse(ctx)
	if err != nil {
		return nil, err
	}

	var broken []BrokenReference

	areaFor := func(configEntityID string) string {
		return areaIDs[configEntityID]
	}

	automations, err := c.source.AutomationConfigs(ctx)
	if err != nil {
		c.logger.Error("fetching automation configs", "error", err)
	}
	for _, doc := range automations {
		for entityID, path := range refs.ExtractFromAny(doc.Config) {
			if _, ok := existing[entityID]; ok {
				continue
			}
			broken = append(broken, BrokenReference{
				ConfigType:      "automation",
				ConfigID:        doc.EntityID,
				ConfigName:      doc.Name,
				MissingEntityID: entityID,
				Context:         classifyContext(path),
				NumericID:       doc.NumericID,
				AreaID:          areaFor(doc.EntityID),
				Path:            path,
			})
		}
	}

	scenes, err := c.source.SceneConfigs(ctx)
	if err != nil {
		c.logger.Error("fetching scene configs", "error", err)
	}
	for _, doc := range scenes {
		// Scene documents hold a flat entities map keyed by entity ID.
		entities, _ := doc.Config["entities"].(map[string]any)
		for entityID := range entities {
			if _, ok := existing[entityID]; ok {
				continue
			}
			broken = append(broken, BrokenReference{
				ConfigType:      "scene",
				ConfigID:        doc.EntityID,
				ConfigName:      doc.Name,
				MissingEntityID: entityID,
				Context:         "entity",
				NumericID:       doc.NumericID,
				AreaID:          areaFor(doc.EntityID),
				Path:            "entities",
			})
		}
	}

	scripts, err := c.source.ScriptConfigs(ctx)
	if err != nil {
		c.logger.Error("fetching script configs", "error", err)
	}
	for _, doc := range scripts {
		// Script bodies are all actions, so the context is fixed
		// rather than classified from the path as for automations.
		for entityID, path := range refs.ExtractFromAny(doc.Config) {
			if _, ok := existing[entityID]; ok {
				continue
			}
			broken = append(broken, BrokenReference{
				ConfigType:      "script",
				ConfigID:        doc.EntityID,
				ConfigName:      doc.Name,
				MissingEntityID: entityID,
				Context:         "action",
				AreaID:          areaFor(doc.EntityID),
				Path:            path,
			})
		}
	}

	// Map iteration above makes the order nondeterministic; sort for
	// stable API output.
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].ConfigID != broken[j].ConfigID {
			return broken[i].ConfigID < broken[j].ConfigID
		}
		return broken[i].MissingEntityID < broken[j].MissingEntityID
	})

	c.logger.Info("reference scan complete", "broken", len(broken))
	c.cache.SetBrokenRefs(broken)
	return broken, nil
}

// Suggest ranks existing entities as replacements for a missing one.
// Only same-domain entities are considered; other domains are
// reachable through search. limit <= 0 means the default of 5.
func (c *Checker) Suggest(ctx context.Context, missingEntityID string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	existing, err := c.entityUniverse(ctx)
	if err != nil {
		return nil, err
	}

	missingDomain, _, _ := strings.Cut(missingEntityID, ".")

	var suggestions []Suggestion
	for entityID, detail := range existing {
		if entityID == missingEntityID || detail.Domain != missingDomain {
			continue
		}

		score, reasons := similarity(missingEntityID, entityID)
		if score < minSuggestionScore {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			EntityID:     entityID,
			FriendlyName: detail.FriendlyName,
			Score:        round3(score),
			Reasons:      reasons,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].EntityID < suggestions[j].EntityID
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// AllEntities returns every known entity for autocomplete, sorted by
// entity ID.
func (c *Checker) AllEntities(ctx context.Context) ([]EntityDetail, error) {
	existing, err := c.entityUniverse(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]EntityDetail, 0, len(existing))
	for _, detail := range existing {
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

// entityUniverse returns the cached entity map, loading it from the
// source when empty.
func (c *Checker) entityUniverse(ctx context.Context) (map[string]EntityDetail, error) {
	if cached, ok := c.cache.Entities(); ok {
		return cached, nil
	}

	states, err := c.source.EntityStates(ctx)
	if err != nil {
		return nil, err
	}

	entities := make(map[string]EntityDetail, len(states))
	for _, s := range states {
		entities[s.EntityID] = s
	}

	c.logger.Info("entity universe loaded", "entities", len(entities))
	c.cache.SetEntities(entities)
	return entities, nil
}

// classifyContext derives the reference context from its breadcrumb
// path. Prefix matches win over substring matches so nested
// conditions inside triggers classify as triggers.
func classifyContext(path string) string {
	switch {
	case strings.HasPrefix(path, "trigger"):
		return "trigger"
	case strings.HasPrefix(path, "condition"):
		return "condition"
	case strings.Contains(path, "trigger"):
		return "trigger"
	case strings.Contains(path, "condition"):
		return "condition"
	}
	return "action"
}
