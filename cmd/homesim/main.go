// HomeSim Core - Smart Home Simulation Service
//
// This is the main entry point for the HomeSim Core application.
// HomeSim serves a simulated smart-home: an in-memory registry of
// lights, thermostats, and locks behind a REST API, with live state
// pushed to WebSocket subscribers and a background driver replaying
// recorded sensor data through the thermostats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/homesim/homesim-core/internal/api"
	"github.com/homesim/homesim-core/internal/device"
	"github.com/homesim/homesim-core/internal/infrastructure/config"
	"github.com/homesim/homesim-core/internal/infrastructure/database"
	"github.com/homesim/homesim-core/internal/infrastructure/influxdb"
	"github.com/homesim/homesim-core/internal/infrastructure/logging"
	"github.com/homesim/homesim-core/internal/infrastructure/mqtt"
	"github.com/homesim/homesim-core/internal/simulation"
	"github.com/homesim/homesim-core/internal/telemetry"
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
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting HomeSim Core",
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

	// Open the telemetry database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
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

	store, err := telemetry.NewStore(db.DB)
	if err != nil {
		return fmt.Errorf("initialising telemetry store: %w", err)
	}

	// Seed the device registry
	registry := device.NewRegistry()
	if err := registry.Seed(device.DefaultDevices()); err != nil {
		return fmt.Errorf("seeding device registry: %w", err)
	}
	log.Info("device registry seeded", "devices", registry.Count())

	// The hub is created ahead of the server so it can join the
	// registry's notifier chain before any mutation happens.
	hub := api.NewHub(cfg.WebSocket, log)
	notifiers := device.MultiNotifier{hub}

	// Connect to MQTT broker (optional)
	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
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

		statePublisher := mqtt.NewStatePublisher(mqttClient, log)
		defer statePublisher.Close()
		notifiers = append(notifiers, statePublisher)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		notifiers = append(notifiers, influxdb.NewMetricExporter(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	registry.SetNotifier(notifiers)

	// Start the API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Logger:    log,
		Registry:  registry,
		Telemetry: store,
		Hub:       hub,
		Version:   version,
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
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"websocket_path", cfg.WebSocket.Path,
	)

	// Start the simulation driver (optional)
	if cfg.Simulation.Enabled {
		driver, err := startSimulation(ctx, cfg, registry, store, log)
		if err != nil {
			return fmt.Errorf("starting simulation: %w", err)
		}
		defer func() {
			log.Info("stopping simulation")
			driver.Stop()
		}()
	} else {
		log.Info("simulation disabled")
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Simulation driver (if enabled)
	// 2. API server (closes WebSocket clients)
	// 3. InfluxDB / MQTT (if enabled)
	// 4. Database

	log.Info("HomeSim Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMESIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMESIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startSimulation loads the recorded sensor data and starts the driver.
//
// A missing data file is not fatal: the driver starts with an empty
// sequence, logs once, and idles until shutdown.
func startSimulation(ctx context.Context, cfg *config.Config, registry *device.Registry, store *telemetry.Store, log *logging.Logger) (*simulation.Driver, error) {
	readings, err := simulation.LoadFile(cfg.Simulation.DataFile)
	if err != nil {
		return nil, fmt.Errorf("loading sensor data: %w", err)
	}
	if readings == nil {
		log.Warn("sensor data file not found", "path", cfg.Simulation.DataFile)
	} else {
		log.Info("sensor data loaded",
			"path", cfg.Simulation.DataFile,
			"readings", len(readings),
		)
	}

	driver := simulation.NewDriver(registry, readings, log,
		simulation.WithInterval(cfg.GetSimulationInterval()),
		simulation.WithTelemetry(store),
	)
	driver.Start(ctx)
	log.Info("simulation started", "interval", cfg.GetSimulationInterval().String())

	return driver, nil
}
