package restructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/registry-restructurer/internal/depend"
	"github.com/nerrad567/registry-restructurer/internal/hierarchy"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/mqtt"
	"github.com/nerrad567/registry-restructurer/internal/refcheck"
	"github.com/nerrad567/registry-restructurer/internal/registry"
	"github.com/nerrad567/registry-restructurer/internal/typemap"
)

// Logger is the minimal logging interface the service needs.
// logging.Logger satisfies it.
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

// RegistryClient is the websocket registry surface the service
// mutates through. registry.Client implements it.
type RegistryClient interface {
	ListAreas(ctx context.Context) ([]registry.Area, error)
	ListDevices(ctx context.Context) ([]registry.Device, error)
	ListEntities(ctx context.Context) ([]registry.Entity, error)
	UpdateArea(ctx context.Context, areaID, name string) error
	UpdateDevice(ctx context.Context, deviceID, name string) error
	UpdateEntity(ctx context.Context, entityID string, update registry.EntityUpdate) (*registry.Entity, error)
	RenameEntity(ctx context.Context, oldEntityID, newEntityID, friendlyName string) (*registry.Entity, error)
	RemoveEntity(ctx context.Context, entityID string) error
}

// EventPublisher publishes change events. mqtt.Client implements it;
// nil disables event publishing.
type EventPublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MetricsWriter records scan and rename statistics. influxdb.Client
// implements it; nil disables metrics.
type MetricsWriter interface {
	WriteScanMetric(brokenCount int, entityCount int, duration time.Duration)
	WriteRenameMetric(kind string, updatedDocs int, failedDocs int)
	WriteFixMetric(configType string, applied bool)
}

// DependencyUpdater rewrites entity references in dependent documents.
// depend.Updater implements it.
type DependencyUpdater interface {
	UpdateAll(ctx context.Context, oldID, newID string, cachedStates []depend.State) (depend.Result, error)
}

// Service orchestrates structure loading, previews, renames and
// reference repair against one platform instance.
type Service struct {
	client     RegistryClient
	hierarchy  *hierarchy.Manager
	checker    *refcheck.Checker
	updater    DependencyUpdater
	translator *typemap.Translator

	events  EventPublisher // optional
	metrics MetricsWriter  // optional
	logger  Logger

	language        string
	suggestionLimit int
}

// Config collects the service's collaborators. Events and Metrics are
// optional; everything else is required.
type Config struct {
	Registry   RegistryClient
	Hierarchy  *hierarchy.Manager
	Checker    *refcheck.Checker
	Updater    DependencyUpdater
	Translator *typemap.Translator
	Events     EventPublisher
	Metrics    MetricsWriter

	Language        string
	SuggestionLimit int
}

// NewService creates the orchestration service.
func NewService(cfg Config) *Service {
	limit := cfg.SuggestionLimit
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		client:          cfg.Registry,
		hierarchy:       cfg.Hierarchy,
		checker:         cfg.Checker,
		updater:         cfg.Updater,
		translator:      cfg.Translator,
		events:          cfg.Events,
		metrics:         cfg.Metrics,
		logger:          noopLogger{},
		language:        cfg.Language,
		suggestionLimit: limit,
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// LoadStructure fetches areas, devices and entities from the registry
// and rebuilds the hierarchy. Each list call is best-effort: a failure
// is logged and that level loads empty, so a partially reachable
// registry still yields a usable (if incomplete) hierarchy.
func (s *Service) LoadStructure(ctx context.Context) (StructureCounts, error) {
	var areas []hierarchy.AreaInfo
	rawAreas, err := s.client.ListAreas(ctx)
	if err != nil {
		s.logger.Error("loading areas", "error", err)
	} else {
		areas = make([]hierarchy.AreaInfo, 0, len(rawAreas))
		for _, a := range rawAreas {
			areas = append(areas, hierarchy.AreaInfo{ID: a.AreaID, Name: a.Name})
		}
		s.logger.Info("loaded areas", "count", len(areas))
	}

	var devices []hierarchy.DeviceInfo
	rawDevices, err := s.client.ListDevices(ctx)
	if err != nil {
		s.logger.Error("loading devices", "error", err)
	} else {
		devices = make([]hierarchy.DeviceInfo, 0, len(rawDevices))
		for _, d := range rawDevices {
			devices = append(devices, hierarchy.DeviceInfo{
				ID:           d.ID,
				Name:         deref(d.Name),
				NameByUser:   deref(d.NameByUser),
				AreaID:       deref(d.AreaID),
				Manufacturer: deref(d.Manufacturer),
				Model:        deref(d.Model),
			})
		}
		s.logger.Info("loaded devices", "count", len(devices))
	}

	var entities []hierarchy.EntityInfo
	rawEntities, err := s.client.ListEntities(ctx)
	if err != nil {
		s.logger.Error("loading entity registry", "error", err)
	} else {
		entities = make([]hierarchy.EntityInfo, 0, len(rawEntities))
		for _, e := range rawEntities {
			entities = append(entities, hierarchy.EntityInfo{
				EntityID:            e.EntityID,
				RegistryID:          e.ID,
				DeviceID:            deref(e.DeviceID),
				AreaID:              deref(e.AreaID),
				DeviceClass:         deref(e.DeviceClass),
				OriginalDeviceClass: deref(e.OriginalDeviceClass),
				Name:                deref(e.Name),
				OriginalName:        deref(e.OriginalName),
				DisabledBy:          deref(e.DisabledBy),
			})
		}
		s.logger.Info("loaded entity registry", "count", len(entities))
	}

	if err := s.hierarchy.Load(ctx, areas, devices, entities); err != nil {
		return StructureCounts{}, fmt.Errorf("loading hierarchy: %w", err)
	}

	a, d, e := s.hierarchy.Counts()
	return StructureCounts{Areas: a, Devices: d, Entities: e}, nil
}

// Counts returns the current hierarchy sizes.
func (s *Service) Counts() StructureCounts {
	a, d, e := s.hierarchy.Counts()
	return StructureCounts{Areas: a, Devices: d, Entities: e}
}

// Areas returns the loaded areas.
func (s *Service) Areas() []hierarchy.AreaNode {
	return s.hierarchy.Areas()
}

// Devices returns the loaded devices.
func (s *Service) Devices() []hierarchy.DeviceNode {
	return s.hierarchy.Devices()
}

// Entities returns the loaded entities.
func (s *Service) Entities() []hierarchy.EntityNode {
	return s.hierarchy.Entities()
}

// DevicesForArea returns the devices assigned to an area.
func (s *Service) DevicesForArea(areaID string) []hierarchy.DeviceNode {
	return s.hierarchy.DevicesForArea(areaID)
}

// HierarchyForEntity returns the entity with its ancestor chain. The
// entity is addressed by its current entity id.
func (s *Service) HierarchyForEntity(entityID string) (hierarchy.EntityPath, bool) {
	entity, ok := s.hierarchy.EntityByID(entityID)
	if !ok {
		return hierarchy.EntityPath{}, false
	}
	return s.hierarchy.PathForEntity(entity.RegistryID)
}

// PreviewAll computes the target name for every loaded entity.
func (s *Service) PreviewAll() []EntityPreview {
	return s.preview(s.hierarchy.Entities())
}

// PreviewArea computes the target names for every entity under an
// area, including entities on the area's devices.
func (s *Service) PreviewArea(areaID string) []EntityPreview {
	return s.preview(s.hierarchy.EntitiesForArea(areaID))
}

// PreviewDevice computes the target names for a device's entities.
func (s *Service) PreviewDevice(deviceID string) []EntityPreview {
	return s.preview(s.hierarchy.EntitiesForDevice(deviceID))
}

func (s *Service) preview(entities []hierarchy.EntityNode) []EntityPreview {
	previews := make([]EntityPreview, 0, len(entities))
	for _, entity := range entities {
		computed := s.hierarchy.ComputeName(entity.RegistryID)
		previews = append(previews, EntityPreview{
			RegistryID:      entity.RegistryID,
			EntityID:        entity.ID,
			NewEntityID:     computed.EntityID,
			NewFriendlyName: computed.FriendlyName,
			NeedsRename:     computed.EntityID != "" && computed.EntityID != entity.ID,
		})
	}
	return previews
}

// TypeMappings returns every known type key with its system default
// and user override for the configured language.
func (s *Service) TypeMappings() []typemap.TypeInfo {
	return s.translator.AllKnownTypes(s.language)
}

// LearnTypeMapping stores a user's preferred label for a type key.
func (s *Service) LearnTypeMapping(ctx context.Context, typeKey, label string) error {
	if label == "" {
		return ErrNameRequired
	}
	return s.translator.SetUserMapping(ctx, typeKey, label)
}

// RemoveTypeMapping deletes a user mapping, reverting the key to its
// system default. Returns false when no user mapping existed.
func (s *Service) RemoveTypeMapping(ctx context.Context, typeKey string) (bool, error) {
	return s.translator.RemoveUserMapping(ctx, typeKey)
}

// EnableEntity clears an entity's disabled state in the registry.
func (s *Service) EnableEntity(ctx context.Context, entityID string) error {
	_, err := s.client.UpdateEntity(ctx, entityID, registry.EntityUpdate{Enable: true})
	if err != nil {
		return fmt.Errorf("enabling %s: %w", entityID, err)
	}
	return nil
}

// DeleteEntity removes an orphaned entity from the registry and
// invalidates the reference cache.
func (s *Service) DeleteEntity(ctx context.Context, entityID string) error {
	if err := s.client.RemoveEntity(ctx, entityID); err != nil {
		return fmt.Errorf("removing %s: %w", entityID, err)
	}
	s.checker.Invalidate()
	return nil
}

// publishEvent marshals and publishes an event; failures are logged,
// never raised. Events are advisory.
func (s *Service) publishEvent(topic string, event any) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshalling event", "topic", topic, "error", err)
		return
	}
	if err := s.events.Publish(topic, payload, 1, false); err != nil {
		s.logger.Warn("publishing event", "topic", topic, "error", err)
	}
}

var topics = mqtt.Topics{}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
