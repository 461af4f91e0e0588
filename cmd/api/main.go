package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/benbjohnson/clock"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	householdgw "github.com/Ramsey-B/clover/internal/gateway/household"
	locationgw "github.com/Ramsey-B/clover/internal/gateway/location"
	pendingdategw "github.com/Ramsey-B/clover/internal/gateway/pendingdate"
	recordgw "github.com/Ramsey-B/clover/internal/gateway/record"
	usergw "github.com/Ramsey-B/clover/internal/gateway/user"
	"github.com/Ramsey-B/clover/internal/server"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/redis"
	"github.com/Ramsey-B/clover/pkg/reset"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// dep adapts closures to the startup dependency interface.
type dep struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dep) GetName() string          { return d.name }
func (d *dep) DependsOn() []string      { return d.dependsOn }
func (d *dep) Start(ctx context.Context) error {
	return d.start(ctx)
}
func (d *dep) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func newLogger(cfg *config.Config) (ectologger.Logger, func()) {
	var zlog *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	sugared := zlog.Sugar()
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		data, merr := json.Marshal(msg)
		if merr != nil {
			sugared.Infof("%+v", msg)
			return
		}
		sugared.Info(string(data))
	})

	return logger, func() { _ = zlog.Sync() }
}

func main() {
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}

	logger, flush := newLogger(cfg)
	defer flush()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.TracingEnabled {
		shutdown, err := tracing.Init(ctx, tracing.InitConfig{
			ServiceName: cfg.AppName,
			Enabled:     cfg.TracingEnabled,
			Endpoint:    cfg.TracingEndpoint,
			Protocol:    cfg.TracingProtocol,
			Insecure:    cfg.TracingInsecure,
		})
		if err != nil {
			logger.WithError(err).Error("failed to initialize tracing")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	var (
		sqlDB       *sqlx.DB
		db          database.DB
		st          *store.Store
		redisClient *redis.Client
		producer    *kafka.Producer
		srv         *server.Server
	)

	graph := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	graph.AddDependency(&dep{
		name: "database",
		start: func(ctx context.Context) error {
			conn, err := database.Connect(ctx, database.Config{
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				UserName:        cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			}, logger)
			if err != nil {
				return err
			}
			sqlDB = conn
			db = database.NewDatabaseInstance(conn, logger)
			return nil
		},
		stop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	graph.AddDependency(&dep{
		name:      "migrations",
		dependsOn: []string{"database"},
		start: func(_ context.Context) error {
			driver, err := postgres.WithInstance(sqlDB.DB, &postgres.Config{})
			if err != nil {
				return err
			}
			ms := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
				AutoRollback:        cfg.DatabaseMigrationAutoRollback,
			})
			return ms.Migrate(cfg.DatabaseName, driver)
		},
	})

	if cfg.KafkaProducerEnabled {
		graph.AddDependency(&dep{
			name: "kafka-producer",
			start: func(_ context.Context) error {
				producer = kafka.NewProducer(kafka.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaOutputTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			stop: func(_ context.Context) error {
				return producer.Close()
			},
		})
	}

	graph.AddDependency(&dep{
		name:      "state-store",
		dependsOn: []string{"migrations"},
		start: func(ctx context.Context) error {
			gateway := store.Gateway{
				Households:   householdgw.NewGateway(db, logger),
				Users:        usergw.NewGateway(db, logger),
				Locations:    locationgw.NewGateway(db, logger),
				Records:      recordgw.NewGateway(db, logger),
				PendingDates: pendingdategw.NewGateway(db, logger),
			}
			opts := []store.Option{}
			if producer != nil {
				opts = append(opts, store.WithEmitter(events.NewEmitter(producer)))
			}
			st = store.New(gateway, logger, opts...)
			return st.Load(ctx)
		},
	})

	if cfg.DailyResetEnabled {
		graph.AddDependency(&dep{
			name: "redis",
			start: func(_ context.Context) error {
				client, err := redis.NewClient(redis.Config{
					Host:     cfg.RedisHost,
					Port:     cfg.RedisPort,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				if err != nil {
					return err
				}
				redisClient = client
				return nil
			},
			stop: func(_ context.Context) error {
				return redisClient.Close()
			},
		})

		graph.AddDependency(&dep{
			name:      "daily-reset",
			dependsOn: []string{"state-store", "redis"},
			start: func(ctx context.Context) error {
				runner := reset.NewRunner(redis.NewResetMarker(redisClient), st, clock.New(), logger)
				// startup-only check; a process spanning midnight does not
				// self-trigger, the next start catches the missed day
				if _, err := runner.RunIfNewDay(ctx); err != nil {
					logger.WithError(err).Error("daily reset check failed")
				}
				return nil
			},
		})
	}

	graph.AddDependency(&dep{
		name:      "http-server",
		dependsOn: []string{"state-store"},
		start: func(_ context.Context) error {
			srv = server.New(cfg, st, db, logger)
			go func() {
				if err := srv.Start(); err != nil {
					logger.WithError(err).Error("http server exited")
					cancel()
				}
			}()
			return nil
		},
		stop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	if err := graph.Start(ctx); err != nil {
		logger.WithError(err).Error("startup failed")
		os.Exit(1)
	}

	logger.Infof("%s started", cfg.AppName)

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := graph.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("shutdown finished with errors")
	}
}
