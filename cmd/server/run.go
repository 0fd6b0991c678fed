package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	accountrepo "hotel-booking-account/backend/internal/account/repository"
	"hotel-booking-account/backend/internal/account/seed"
	"hotel-booking-account/backend/internal/audit"
	auditrepo "hotel-booking-account/backend/internal/audit/repository"
	"hotel-booking-account/backend/internal/config"
	"hotel-booking-account/backend/internal/db"
	healthhandler "hotel-booking-account/backend/internal/health/handler"
	"hotel-booking-account/backend/internal/httpapi"
	identityservice "hotel-booking-account/backend/internal/identity/service"
	"hotel-booking-account/backend/internal/metrics"
	"hotel-booking-account/backend/internal/policy/engine"
	"hotel-booking-account/backend/internal/role/catalog"
	rolerepo "hotel-booking-account/backend/internal/role/repository"
	roleservice "hotel-booking-account/backend/internal/role/service"
	"hotel-booking-account/backend/internal/security"
	"hotel-booking-account/backend/internal/server"
	sessionrepo "hotel-booking-account/backend/internal/session/repository"
	"hotel-booking-account/backend/internal/telemetry"
	telemetryotel "hotel-booking-account/backend/internal/telemetry/otel"
	"hotel-booking-account/backend/internal/telemetry/producer"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
	readHeaderTimeout   = 5 * time.Second
)

type refreshStore interface {
	sessionrepo.Store
	sessionrepo.Purger
}

// storage is the persistence selected by DATABASE_URL.
type storage struct {
	conn     *sql.DB
	accounts accountrepo.Repository
	roles    rolerepo.Repository
	refresh  refreshStore
	audit    auditrepo.Sink
}

func (s *storage) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := cfg.RequireSigningKeys(); err != nil {
		return err
	}
	tokens, err := newTokenProvider(cfg)
	if err != nil {
		return err
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, cfg.OTelInsecure)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("otel shutdown", slog.Any("error", err))
		}
	}()

	hasher := security.NewHasher(cfg.BcryptCost)
	store, err := openStorage(ctx, cfg, hasher, providers, log)
	if err != nil {
		return err
	}
	defer store.Close()

	static := catalog.NewStatic()
	var (
		permCatalog catalog.Catalog = static
		policyCheck healthhandler.PolicyChecker
		roleAdmin   httpapi.RoleAdmin
	)
	switch cfg.PermissionCatalog {
	case config.CatalogDatabase:
		permCatalog = store.roles
		roleAdmin = roleservice.NewRoleService(store.roles)
	case config.CatalogPolicy:
		opa, err := newPolicyCatalog(ctx, cfg.PolicyFile, static, log)
		if err != nil {
			return err
		}
		permCatalog = opa
		policyCheck = opa
	}
	log.Info("permission catalog", slog.String("backing", cfg.PermissionCatalog))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)
	if mem, ok := store.refresh.(*sessionrepo.MemoryStore); ok {
		collector.RegisterGaugeFunc("refresh_tokens", "Live refresh tokens held in memory.", func() float64 {
			return float64(mem.Len())
		})
	}

	auditSink, closeAudit, err := newAuditSink(cfg, store.audit, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditLogger := audit.NewLogger(auditSink, nil, log)
	builder := identityservice.NewPrincipalBuilder(permCatalog, log)
	verifier := identityservice.NewCredentialVerifier(store.accounts, hasher, builder)
	auth := identityservice.NewAuthService(verifier, builder, store.accounts, tokens, store.refresh, identityservice.Options{
		RotateRefreshTokens: cfg.RefreshTokenRotation,
		Audit:               auditLogger,
		Metrics:             collector,
		Logger:              log,
	})

	var pinger healthhandler.Pinger
	if store.conn != nil {
		pinger = store.conn
	}
	health := healthhandler.NewServer(pinger, policyCheck, log)
	_ = health.Update(ctx)

	trusted, err := cfg.ParsedTrustedProxies()
	if err != nil {
		return err
	}

	limiter := httpapi.NewRateLimiter(httpapi.NewRateLimiterConfig(cfg.LoginRatePerMinute, cfg.LoginRateBurst), collector)
	defer limiter.Stop()

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Auth:           auth,
		Authenticator:  auth,
		Roles:          roleAdmin,
		Audit:          auditLogger,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
		Health:         health,
		RateLimiter:    limiter,
		TrustedProxies: trusted,
		Logger:         log,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	grpcSrv, err := server.NewGRPCServer(server.Deps{
		Authenticator:  auth,
		Audit:          auditLogger,
		Health:         health,
		TrustedProxies: trusted,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen HTTP: %w", err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("listen gRPC: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", slog.String("addr", cfg.HTTPAddr))
		return serveHTTP(gctx, httpSrv, httpLis)
	})
	g.Go(func() error {
		log.Info("gRPC server listening", slog.String("addr", cfg.GRPCAddr))
		return server.Serve(gctx, grpcSrv, grpcLis)
	})
	g.Go(func() error {
		sessionrepo.RunPurger(gctx, store.refresh, cfg.PurgeInterval(), log)
		return nil
	})
	g.Go(func() error {
		health.Run(gctx, healthCheckInterval)
		return nil
	})
	return g.Wait()
}

// newAuditSink adds an asynchronous Kafka publisher next to primary when
// KAFKA_BROKERS is set. The returned close func drains in-flight writes.
func newAuditSink(cfg *config.Config, primary auditrepo.Sink, log *slog.Logger) (auditrepo.Sink, func(), error) {
	brokers := cfg.KafkaBrokerList()
	if len(brokers) == 0 {
		return primary, func() {}, nil
	}
	kafkaSink, err := producer.NewKafkaSink(brokers, cfg.AuditKafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	async := telemetry.NewAsyncSink(kafkaSink, log)
	log.Info("audit: publishing to kafka", slog.String("topic", cfg.AuditKafkaTopic))
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
		defer cancel()
		if err := async.Close(ctx); err != nil {
			log.Warn("audit: drain kafka writes", slog.Any("error", err))
		}
		if err := kafkaSink.Close(); err != nil {
			log.Warn("audit: close kafka writer", slog.Any("error", err))
		}
	}
	return telemetry.NewFanout(primary, async), closeFn, nil
}

func newTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	priv, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		return nil, err
	}
	pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		return nil, err
	}
	var opts []security.Option
	if cfg.JWTIssuer != "" {
		opts = append(opts, security.WithIssuer(cfg.JWTIssuer))
	}
	return security.NewTokenProvider(priv, pub, cfg.AccessTTL(), opts...)
}

// openStorage returns Postgres-backed stores when DATABASE_URL is set, and
// in-memory stores seeded with the static role table and demo accounts otherwise.
func openStorage(ctx context.Context, cfg *config.Config, hasher *security.Hasher, providers *telemetryotel.Providers, log *slog.Logger) (*storage, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("storage: postgres")
		return &storage{
			conn:     conn,
			accounts: accountrepo.NewPostgresRepository(conn),
			roles:    rolerepo.NewPostgresRepository(conn),
			refresh:  sessionrepo.NewPostgresStore(conn, cfg.RefreshTTL()),
			audit:    auditrepo.NewPostgresRepository(conn),
		}, nil
	}

	accounts := accountrepo.NewMemoryRepository()
	n, err := seed.Accounts(ctx, accounts, hasher, seed.DemoAccounts)
	if err != nil {
		return nil, err
	}
	roles := rolerepo.NewMemoryRepository()
	if err := roles.Seed(ctx, catalog.NewStatic()); err != nil {
		return nil, err
	}
	log.Info("storage: in-memory", slog.Int("demo_accounts", n))
	return &storage{
		accounts: accounts,
		roles:    roles,
		refresh:  sessionrepo.NewMemoryStore(cfg.RefreshTTL()),
		audit:    telemetryotel.NewAuditSink(providers.LoggerProvider),
	}, nil
}

func newPolicyCatalog(ctx context.Context, policyFile string, static *catalog.Static, log *slog.Logger) (*engine.OPACatalog, error) {
	var module string
	if policyFile != "" {
		b, err := os.ReadFile(policyFile)
		if err != nil {
			return nil, fmt.Errorf("read POLICY_FILE: %w", err)
		}
		module = string(b)
	} else {
		var err error
		module, err = engine.DefaultRegoPolicy(static)
		if err != nil {
			return nil, err
		}
	}
	return engine.NewOPACatalog(ctx, module, static, log)
}

func serveHTTP(ctx context.Context, srv *http.Server, lis net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}
