// Registry Restructurer - smart-home naming and reference repair
//
// This is the main entry point for the registry restructurer service.
// It connects to a Home Assistant instance, builds the
// Area -> Device -> Entity hierarchy, and exposes an HTTP API for
// rename previews, cascaded renames and broken-reference repair.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/registry-restructurer/migrations"

	"github.com/nerrad567/registry-restructurer/internal/api"
	"github.com/nerrad567/registry-restructurer/internal/depend"
	"github.com/nerrad567/registry-restructurer/internal/hierarchy"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/config"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/database"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/influxdb"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/logging"
	"github.com/nerrad567/registry-restructurer/internal/infrastructure/mqtt"
	"github.com/nerrad567/registry-restructurer/internal/overrides"
	"github.com/nerrad567/registry-restructurer/internal/refcheck"
	"github.com/nerrad567/registry-restructurer/internal/registry"
	"github.com/nerrad567/registry-restructurer/internal/restructure"
	"github.com/nerrad567/registry-restructurer/internal/typemap"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting registry restructurer",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Build the naming translator from persisted user mappings
	typemapRepo := typemap.NewSQLiteRepository(db.DB)
	translator, err := typemap.NewTranslator(ctx, typemapRepo)
	if err != nil {
		return fmt.Errorf("loading type mappings: %w", err)
	}
	log.Info("type translator initialised", "language", cfg.Naming.Language)

	// Build the hierarchy manager over the overrides store
	overridesRepo := overrides.NewSQLiteRepository(db.DB)
	manager := hierarchy.NewManager(overridesRepo, translator, cfg.Naming.Language)
	manager.SetLogger(log)

	// Connect to the upstream registry over websocket
	client := registry.NewClient(cfg.HomeAssistant.WebSocketURL, cfg.HomeAssistant.Token)
	client.SetLogger(log)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to registry: %w", err)
	}
	defer func() {
		log.Info("closing registry connection")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing registry connection", "error", closeErr)
		}
	}()
	log.Info("registry connected", "url", cfg.HomeAssistant.WebSocketURL)

	// REST document store for states and config documents
	store := registry.NewStore(cfg.HomeAssistant.BaseURL, cfg.HomeAssistant.Token)
	store.SetLogger(log)

	// Reference checker and dependency updater over the store
	checker := refcheck.NewChecker(store)
	checker.SetLogger(log)
	updater := depend.NewUpdater(store)
	updater.SetLogger(log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Assemble the orchestration service. Optional collaborators are
	// only assigned when their client exists, so a nil pointer never
	// hides behind a non-nil interface.
	svcCfg := restructure.Config{
		Registry:        client,
		Hierarchy:       manager,
		Checker:         checker,
		Updater:         updater,
		Translator:      translator,
		Language:        cfg.Naming.Language,
		SuggestionLimit: cfg.Naming.SuggestionLimit,
	}
	if mqttClient != nil {
		svcCfg.Events = mqttClient
	}
	if influxClient != nil {
		svcCfg.Metrics = influxClient
	}
	svc := restructure.NewService(svcCfg)
	svc.SetLogger(log)

	// Initial structure load
	counts, err := svc.LoadStructure(ctx)
	if err != nil {
		return fmt.Errorf("loading structure: %w", err)
	}
	log.Info("structure loaded",
		"areas", counts.Areas,
		"devices", counts.Devices,
		"entities", counts.Entities,
	)

	// Scans can be triggered over MQTT as well as HTTP. The
	// subscription is restored automatically after reconnects.
	if mqttClient != nil {
		topic := mqtt.Topics{}.CommandScan()
		if err := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), svc.ScanCommandHandler(ctx)); err != nil {
			return fmt.Errorf("subscribing to scan commands: %w", err)
		}
		log.Info("listening for scan commands", "topic", topic)
	}

	// Start HTTP API
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Service: svc,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Registry websocket
	// 5. Database

	log.Info("registry restructurer stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RESTRUCTURER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RESTRUCTURER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
