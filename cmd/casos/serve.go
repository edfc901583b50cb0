package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casos-demo/casos-core/internal/api"
	"github.com/casos-demo/casos-core/internal/auth"
	"github.com/casos-demo/casos-core/internal/caso"
	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/database"
	"github.com/casos-demo/casos-core/internal/infrastructure/influxdb"
	"github.com/casos-demo/casos-core/internal/infrastructure/logging"
	"github.com/casos-demo/casos-core/internal/infrastructure/mqtt"
	"github.com/casos-demo/casos-core/internal/infrastructure/ratelimit"
	"github.com/casos-demo/casos-core/migrations"
)

// run is the server lifecycle, separated from main for testability.
// It returns nil on clean shutdown after ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting casos",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Users
	db, err := database.Open(cfg.Database)
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

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	users := auth.NewUserRepository(db.DB)
	if _, seedErr := auth.SeedDemoUser(ctx, users, auth.DemoAccount{
		Email:        cfg.Security.DemoUser.Email,
		Password:     cfg.Security.DemoUser.Password,
		PasswordHash: cfg.Security.DemoUser.PasswordHash,
	}, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding demo user: %w", seedErr)
	}

	gate := auth.NewGate(users, cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.AccessTokenTTL)*time.Minute, log.Logger)

	// Cases
	store := caso.NewStore()
	store.SetLogger(log.With("component", "caso"))
	if cfg.App.SeedCasos {
		store.Seed(caso.DemoCasos())
		log.Info("demo cases seeded", "count", store.Len())
	}

	deps := api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Store:    store,
		Gate:     gate,
		DB:       db,
		Version:  version,
	}

	// MQTT (optional)
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	switch {
	case errors.Is(err, mqtt.ErrDisabled):
		log.Info("MQTT disabled")
	case err != nil:
		return fmt.Errorf("connecting to MQTT: %w", err)
	default:
		mqttClient.SetLogger(log.With("component", "mqtt"))
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
		deps.Events = mqttClient
	}

	// InfluxDB (optional)
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
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
		deps.Metrics = influxClient
	}

	// Rate limiting (optional) with Redis counters (optional)
	var rdb *redis.Client
	if cfg.Security.RateLimit.Enabled {
		deps.Limiter = ratelimit.New(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		log.Info("rate limiting enabled",
			"requests_per_minute", cfg.Security.RateLimit.RequestsPerMinute,
			"burst", cfg.Security.RateLimit.Burst,
		)

		rdb, err = ratelimit.ConnectRedis(ctx, cfg.Redis)
		switch {
		case errors.Is(err, ratelimit.ErrRedisDisabled):
			log.Info("Redis disabled, rate limit decisions not counted")
		case err != nil:
			return fmt.Errorf("connecting to Redis: %w", err)
		default:
			defer func() {
				log.Info("closing Redis connection")
				if closeErr := rdb.Close(); closeErr != nil {
					log.Error("error closing Redis", "error", closeErr)
				}
			}()
			deps.RateStats = ratelimit.NewRedisStats(rdb, cfg.Redis.Prefix, cfg.Redis.StatsTTL)
			log.Info("Redis connected", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		}
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient, rdb); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	server, err := api.New(deps)
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

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, Redis, InfluxDB, MQTT, database.

	log.Info("casos stopped")
	return nil
}

// healthCheck verifies every configured backend answers. Nil clients are
// disabled backends and are skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, rdb *redis.Client) error {
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

	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	return nil
}
