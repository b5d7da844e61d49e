package restructure

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/registry-restructurer/internal/refcheck"
)

// ScanReferences runs a broken-reference scan. With useCache true a
// previous result is reused when the cache is valid. Results are
// annotated with the referencing document's area when the hierarchy
// knows it, and scan statistics are recorded.
func (s *Service) ScanReferences(ctx context.Context, useCache bool) ([]refcheck.BrokenReference, error) {
	start := time.Now()

	broken, err := s.checker.ScanAll(ctx, useCache, s.documentAreas())
	if err != nil {
		return nil, fmt.Errorf("scanning references: %w", err)
	}

	_, _, entityCount := s.hierarchy.Counts()
	if s.metrics != nil {
		s.metrics.WriteScanMetric(len(broken), entityCount, time.Since(start))
	}
	s.publishEvent(topics.ScanCompleted(), map[string]any{
		"broken_count": len(broken),
		"entity_count": entityCount,
	})

	return broken, nil
}

// ScanCommandHandler returns a message-bus callback that triggers a
// fresh reference scan. The payload is ignored; the result is
// announced on the scan-completed event topic as usual.
func (s *Service) ScanCommandHandler(ctx context.Context) func(topic string, payload []byte) error {
	return func(string, []byte) error {
		if _, err := s.ScanReferences(ctx, false); err != nil {
			return fmt.Errorf("command-triggered scan: %w", err)
		}
		return nil
	}
}

// Suggest ranks replacement candidates for a missing entity id using
// the configured suggestion limit.
func (s *Service) Suggest(ctx context.Context, missingEntityID string) ([]refcheck.Suggestion, error) {
	return s.checker.Suggest(ctx, missingEntityID, s.suggestionLimit)
}

// AllEntities lists every entity known to the platform, for
// autocomplete in the front end.
func (s *Service) AllEntities(ctx context.Context) ([]refcheck.EntityDetail, error) {
	return s.checker.AllEntities(ctx)
}

// ApplyFix replaces every reference to a missing entity id with a
// replacement across all documents that mention it. All broken
// references with the same missing id are fixed in one pass, so a
// single user decision applies everywhere.
//
// Returns ErrNoBrokenReferences when no scanned document references
// the missing id.
func (s *Service) ApplyFix(ctx context.Context, oldEntityID, newEntityID string) (FixResult, error) {
	broken, err := s.checker.ScanAll(ctx, true, s.documentAreas())
	if err != nil {
		return FixResult{}, fmt.Errorf("scanning references: %w", err)
	}

	references := 0
	for _, ref := range broken {
		if ref.MissingEntityID == oldEntityID {
			references++
		}
	}
	if references == 0 {
		return FixResult{}, fmt.Errorf("%w: %s", ErrNoBrokenReferences, oldEntityID)
	}

	s.logger.Info("fixing references", "old", oldEntityID, "new", newEntityID, "references", references)

	deps, err := s.updater.UpdateAll(ctx, oldEntityID, newEntityID, nil)
	if err != nil {
		return FixResult{}, fmt.Errorf("rewriting references: %w", err)
	}

	s.checker.Invalidate()

	if s.metrics != nil {
		s.recordFixMetrics(deps.Scenes.Success, deps.Scenes.Failed, "scene")
		s.recordFixMetrics(deps.Scripts.Success, deps.Scripts.Failed, "script")
		s.recordFixMetrics(deps.Automations.Success, deps.Automations.Failed, "automation")
	}
	s.publishEvent(topics.ReferenceFixed(), map[string]any{
		"old_entity_id": oldEntityID,
		"new_entity_id": newEntityID,
		"fixed_count":   deps.TotalSuccess,
		"failed_count":  deps.TotalFailed,
	})

	return FixResult{
		OldEntityID: oldEntityID,
		NewEntityID: newEntityID,
		References:  references,
		Result:      deps,
	}, nil
}

func (s *Service) recordFixMetrics(success, failed []string, configType string) {
	for range success {
		s.metrics.WriteFixMetric(configType, true)
	}
	for range failed {
		s.metrics.WriteFixMetric(configType, false)
	}
}

// documentAreas maps entity ids to their area for scan annotation.
// Automations, scenes and scripts are entities themselves, so the
// hierarchy usually knows where they live.
func (s *Service) documentAreas() map[string]string {
	areas := make(map[string]string)
	for _, entity := range s.hierarchy.Entities() {
		path, ok := s.hierarchy.PathForEntity(entity.RegistryID)
		if !ok || path.Area == nil {
			continue
		}
		areas[entity.ID] = path.Area.ID
	}
	return areas
}
