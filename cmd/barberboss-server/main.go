package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"barberboss/backend/internal/config"
	"barberboss/backend/internal/events"
	"barberboss/backend/internal/service/appointments"
	"barberboss/backend/internal/service/availability"
	"barberboss/backend/internal/service/blackout"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/store/postgres"
	"barberboss/backend/internal/telemetry"
	grpcTransport "barberboss/backend/internal/transport/grpc"
)

const serviceName = "barberboss-server"

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		log.Error("business timezone invalid", slog.Any("err", err), slog.String("timezone", cfg.BusinessTimezone))
		os.Exit(1)
	}

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("log_level", cfg.LogLevel),
		slog.String("business_timezone", loc.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("tracing setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", slog.Any("err", err))
		}
	}()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	openCtx, cancelOpen := context.WithTimeout(ctx, 10*time.Second)
	db, err := postgres.Open(openCtx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	cancelOpen()
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	cache, closeCache := settingsCache(cfg, log)
	defer closeCache()

	publisher := eventPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("event publisher close failed", slog.Any("err", err))
		}
	}()

	apptRepo := postgres.NewAppointmentRepo(db, postgres.TxConfig{MaxWait: cfg.TxMaxWait, Timeout: cfg.TxTimeout})
	blockRepo := postgres.NewTimeBlockRepo(db)
	catalog := postgres.NewCatalogRepo(db)

	cal := calendar.New(postgres.NewSettingsRepo(db), cache, loc, log)
	blocks := blackout.New(blockRepo, loc, log)
	planner := availability.NewPlanner(cal, catalog, apptRepo, blockRepo, loc, log)
	engine := appointments.NewEngine(appointments.Deps{
		Appointments: apptRepo,
		Catalog:      catalog,
		Clients:      catalog,
		Settings:     cal,
		Blackouts:    blocks,
		Events:       publisher,
		Location:     loc,
		Logger:       log,
	})

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(defaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout)),
	)
	grpcTransport.RegisterSchedulingServiceServer(grpcServer, grpcTransport.NewSchedulingServer(grpcTransport.Services{
		Appointments: engine,
		Slots:        planner,
		Settings:     cal,
		TimeBlocks:   blocks,
	}, loc, log))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))

	readyCtx, cancelReady := context.WithTimeout(ctx, 5*time.Second)
	if err := postgres.ReadyCheck(db)(readyCtx); err != nil {
		log.Warn("database not ready", slog.Any("err", err))
	} else {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(grpcTransport.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
	cancelReady()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		healthServer.Shutdown()
		shutdown(log, grpcServer, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// settingsCache builds the configured cache backend. A nil Cache disables
// caching and every settings read hits the database.
func settingsCache(cfg config.Config, log *slog.Logger) (calendar.Cache, func()) {
	switch cfg.SettingsCacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info("settings cache", slog.String("backend", "redis"), slog.String("redis_addr", cfg.RedisAddr))
		return calendar.NewRedisCache(rdb, "", cfg.SettingsCacheTTL), func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}
	case "none":
		log.Info("settings cache", slog.String("backend", "none"))
		return nil, func() {}
	default:
		log.Info("settings cache", slog.String("backend", "memory"), slog.Duration("ttl", cfg.SettingsCacheTTL))
		return calendar.NewMemoryCache(cfg.SettingsCacheTTL, time.Now), func() {}
	}
}

func eventPublisher(cfg config.Config, log *slog.Logger) events.Publisher {
	if len(events.SplitBrokers(cfg.KafkaBrokers)) == 0 {
		log.Info("event publishing disabled", slog.String("reason", "no_kafka_brokers"))
		return events.Nop{}
	}
	p, err := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
	if err != nil {
		log.Warn("kafka publisher unavailable; events disabled", slog.Any("err", err))
		return events.Nop{}
	}
	log.Info("event publishing enabled", slog.String("topic", cfg.KafkaTopic))
	return p
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
