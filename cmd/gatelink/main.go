// Gatelink Core - Gate and Relay Device Management
//
// This is the main entry point for the Gatelink Core daemon. It keeps the
// local device repository, publishes state snapshots over MQTT, and hands
// outbound gate commands to the SMS gateway.
//
// Two maintenance subcommands operate on the same store without starting
// the daemon:
//
//	gatelink backup            write a backup of the key-space to stdout
//	gatelink restore <file>    replace the key-space from a backup file
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calloway/gatelink-core/internal/backup"
	"github.com/calloway/gatelink-core/internal/command"
	"github.com/calloway/gatelink-core/internal/gate"
	"github.com/calloway/gatelink-core/internal/infrastructure/config"
	"github.com/calloway/gatelink-core/internal/infrastructure/influxdb"
	"github.com/calloway/gatelink-core/internal/infrastructure/logging"
	"github.com/calloway/gatelink-core/internal/infrastructure/mqtt"
	"github.com/calloway/gatelink-core/internal/infrastructure/storage"
	"github.com/calloway/gatelink-core/internal/snapshot"
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
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch {
	case len(os.Args) > 1 && os.Args[1] == "backup":
		err = runBackup(ctx)
	case len(os.Args) > 1 && os.Args[1] == "restore":
		err = runRestore(ctx, os.Args[2:])
	default:
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the daemon logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gatelink Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

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

	store, err := storage.Open(ctx, storage.Config{
		Path:        cfg.Storage.Path,
		WALMode:     cfg.Storage.WALMode,
		BusyTimeout: cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		log.Info("closing storage")
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing storage", "error", closeErr)
		}
	}()
	log.Info("storage connected", "path", cfg.Storage.Path)

	repo := gate.NewRepository(store)
	repo.SetLogger(log)

	if err := repo.EnsureSettings(ctx); err != nil {
		return fmt.Errorf("initialising settings: %w", err)
	}

	cache := snapshot.New(repo)
	cache.SetLogger(log)

	if err := cache.Refresh(ctx); err != nil {
		return fmt.Errorf("loading initial snapshot: %w", err)
	}
	snap := cache.Current()
	log.Info("snapshot cache initialised",
		"devices", len(snap.Devices),
		"users", len(snap.Users),
	)

	audit := command.NewAuditLogger(repo)

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
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		cache.SetNotifier(mqttClient)
	} else {
		log.Info("MQTT disabled")
	}

	// The command service needs a transport to hand commands to the
	// gateway; without MQTT there is no inbox and commands stay local-only.
	if mqttClient != nil {
		commandService := command.NewService(repo, mqttClient, audit)
		if err := subscribeCommandInbox(ctx, mqttClient, commandService, cache, log); err != nil {
			return fmt.Errorf("subscribing command inbox: %w", err)
		}
		log.Info("command inbox subscribed", "topic", mqtt.Topics{}.CommandInbox())
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

		audit.SetMetrics(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	if err := healthCheck(ctx, store, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	runRefreshLoop(ctx, cache, cfg.Snapshot.RefreshInterval, log)

	log.Info("shutdown signal received, cleaning up")
	log.Info("Gatelink Core stopped")
	return nil
}

// runRefreshLoop periodically refreshes the snapshot cache until the
// context is cancelled. A zero interval disables periodic refresh and the
// loop just waits for shutdown.
func runRefreshLoop(ctx context.Context, cache *snapshot.Cache, intervalSeconds int, log *logging.Logger) {
	if intervalSeconds <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cache.Refresh(ctx); err != nil {
				log.Error("snapshot refresh failed", "error", err)
			}
		}
	}
}

// commandRequest is the payload published by panels on the command inbox.
type commandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

// subscribeCommandInbox routes inbound command requests through the
// command service and refreshes the snapshot so the audit entry is
// republished.
func subscribeCommandInbox(ctx context.Context, client *mqtt.Client, svc *command.Service, cache *snapshot.Cache, log *logging.Logger) error {
	return client.Subscribe(mqtt.Topics{}.CommandInbox(), 1, func(_ string, payload []byte) error {
		var req commandRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("decoding command request: %w", err)
		}

		if err := svc.Send(ctx, req.DeviceID, req.Command); err != nil {
			log.Warn("command send failed", "device_id", req.DeviceID, "error", err)
		}

		if err := cache.Refresh(ctx); err != nil {
			log.Error("snapshot refresh after command failed", "error", err)
		}
		return nil
	})
}

// runBackup writes a backup of the key-space to stdout.
func runBackup(ctx context.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := backup.Create(ctx, store)
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	fmt.Println(payload)
	return nil
}

// runRestore replaces the key-space from a backup file.
func runRestore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: gatelink restore <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading backup file: %w", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := backup.NewEngine(store)
	engine.SetLogger(logging.Default())

	if err := engine.Restore(ctx, string(data)); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}

	fmt.Println("restore complete")
	return nil
}

// openStore loads config and opens the SQLite store for subcommands.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(ctx, storage.Config{
		Path:        cfg.Storage.Path,
		WALMode:     cfg.Storage.WALMode,
		BusyTimeout: cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

// getConfigPath returns the configuration file path.
// Uses GATELINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GATELINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, store *storage.SQLiteStore, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
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
