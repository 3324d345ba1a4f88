package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mayer-domminic/portfoliocom/internal/config"
	"github.com/mayer-domminic/portfoliocom/internal/db"
	"github.com/mayer-domminic/portfoliocom/internal/gallery"
	"github.com/mayer-domminic/portfoliocom/internal/middleware"
	"github.com/mayer-domminic/portfoliocom/internal/misc"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/metrics"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"
	"github.com/mayer-domminic/portfoliocom/internal/vault"
	"github.com/mayer-domminic/portfoliocom/internal/workouts"
)

const remoteApiTimeout = 20 * time.Second

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	catalog         *gallery.Catalog
	gallerySessions *gallery.SessionStore
	workoutsService *workouts.Service
	vaultApi        *vault.Api

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	HevyApiKey              string
	VaultGithubToken        string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// the db is only needed when the gallery catalog is kept there
	var (
		dbPool           *pgxpool.Pool
		pgxpoolCollector prometheus.Collector
	)
	if cfg.GalleryCatalogSource == config.GalleryCatalogSourcePostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
	}

	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "portfolio-backend", rdb)
	if err != nil {
		return nil, err
	}

	var catalogSource gallery.CatalogSource
	if dbPool != nil {
		catalogSource = gallery.NewPsqlCatalogSource(dbPool)
	} else {
		catalogSource = gallery.NewTomlCatalogSource(cfg.GalleryCatalogPath)
	}
	catalog, err := gallery.LoadCatalog(ctx, catalogSource, cfg.GalleryImagesBaseURL)
	if err != nil {
		return nil, fmt.Errorf("load gallery catalog: %w", err)
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   remoteApiTimeout,
	}

	if params.HevyApiKey == "" {
		log.Warnln("hevy api key not set, the lifting dashboard will fail to fetch workouts")
	}
	workoutsService := workouts.NewService(
		workouts.NewFetcher(
			workouts.NewHevyApi(cfg.HevyApiURL, params.HevyApiKey, tracedHttpClient),
			cfg.HevyPageSize,
			metricsManager,
		),
		time.Duration(cfg.WorkoutsSnapshotTTLSeconds)*time.Second,
		metricsManager,
	)

	vaultApi := vault.NewApi(
		vault.ApiParams{
			ApiURL:   cfg.VaultApiURL,
			Owner:    cfg.VaultOwner,
			Repo:     cfg.VaultRepo,
			Ref:      cfg.VaultRef,
			Token:    params.VaultGithubToken,
			CacheTTL: time.Duration(cfg.VaultCacheTTLMinutes) * time.Minute,
		},
		tracedHttpClient,
		rdb,
		metricsManager,
	)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		versionInfo: params.VersionInfo,

		catalog: catalog,
		gallerySessions: gallery.NewSessionStore(
			rdb,
			time.Duration(cfg.GallerySessionTTLMinutes)*time.Minute,
		),
		workoutsService: workoutsService,
		vaultApi:        vaultApi,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	misc.NewHandler(s.versionInfo).SetupRoutes(r)

	gallery.SetupAssetsRoute(r, s.config.GalleryImagesBaseURL, s.config.GalleryAssetsPath)
	galleryHandler := gallery.NewHandler(s.catalog, s.gallerySessions, s.metricsManager)
	galleryHandler.SetupRoutes(r.PathPrefix("/gallery").Subrouter())

	// lifting and vault are backed by rate limited remote apis
	liftingRouter := r.PathPrefix("/lifting").Subrouter()
	workouts.NewHandler(s.workoutsService, s.config.WorkoutsHistoryPageSize).SetupRoutes(liftingRouter)
	liftingRouter.Use(middleware.RateLimit(s.rateLimiter, "lifting", s.config.RateLimitAllowedPerMin, s.metricsManager))

	vaultRouter := r.PathPrefix("/vault").Subrouter()
	vault.NewHandler(s.vaultApi).SetupRoutes(vaultRouter)
	vaultRouter.Use(middleware.RateLimit(s.rateLimiter, "vault", s.config.RateLimitAllowedPerMin, s.metricsManager))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.LimitRequestBody(middleware.MaxRequestBodyBytes))

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
