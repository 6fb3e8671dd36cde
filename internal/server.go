package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/config"
	"github.com/verudex/Momentum-sub000/internal/db"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/friends"
	"github.com/verudex/Momentum-sub000/internal/leaderboard"
	"github.com/verudex/Momentum-sub000/internal/middleware"
	"github.com/verudex/Momentum-sub000/internal/streak"
	"github.com/verudex/Momentum-sub000/internal/summary"
	"github.com/verudex/Momentum-sub000/internal/target"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/internal/textgen"
	"github.com/verudex/Momentum-sub000/pkg"

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
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	cal    *calendar.Calendar

	entriesRepo    *entries.Repo
	friendsRepo    *friends.Repo
	friendsService *friends.Service
	summaryService *summary.Service
	streakEngine   *streak.Engine
	targetRepo     *target.Repo
	evaluator      *target.Evaluator
	ranker         *leaderboard.Ranker
	textGenClient  *textgen.Client

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "momentum_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("momentum", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	loc, err := time.LoadLocation(params.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", params.Config.Timezone, err)
	}
	cal := calendar.New(loc)

	friendsRepo := friends.NewRepo(dbPool)
	authService := auth.NewService(auth.DefaultTTL, rdb, friendsRepo)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "momentum-backend")
	if err != nil {
		return nil, err
	}

	entriesRepo := entries.NewRepo(dbPool)
	friendsService := friends.NewService(friendsRepo)
	targetRepo := target.NewRepo(dbPool)

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		cal:         cal,
		versionInfo: params.VersionInfo,

		entriesRepo:    entriesRepo,
		friendsRepo:    friendsRepo,
		friendsService: friendsService,
		summaryService: summary.NewService(entriesRepo, cal),
		streakEngine:   streak.NewEngine(streak.NewRepo(dbPool), entriesRepo, cal, metricsManager),
		targetRepo:     targetRepo,
		evaluator:      target.NewEvaluator(targetRepo, entriesRepo, cal),
		ranker:         leaderboard.NewRanker(entriesRepo, friendsService, metricsManager),
		textGenClient:  textgen.NewClient(params.Config.TextGenBaseURL),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("momentum-router"))

	entriesHandler := entries.NewHandler(s.entriesRepo, s.metricsManager)
	r.HandleFunc("/workouts", entriesHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/list", entriesHandler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", entriesHandler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", entriesHandler.HandleDeleteWorkout).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/diet", entriesHandler.HandleAddDietRecord).Methods("POST", "OPTIONS").Name("new-diet-record")
	r.HandleFunc("/diet/list", entriesHandler.HandleListDietRecords).Methods("GET", "OPTIONS").Name("list-diet-records")
	r.HandleFunc("/diet/{id}", entriesHandler.HandleDeleteDietRecord).Methods("DELETE", "OPTIONS").Name("delete-diet-record")

	summaryHandler := summary.NewHandler(s.summaryService)
	r.HandleFunc("/summary/week/workouts", summaryHandler.HandleWorkoutWeekly).Methods("GET", "OPTIONS").Name("weekly-workouts")
	r.HandleFunc("/summary/week/diet", summaryHandler.HandleDietWeekly).Methods("GET", "OPTIONS").Name("weekly-diet")

	streakHandler := streak.NewHandler(s.streakEngine, s.targetRepo)
	r.HandleFunc("/streak/workout/advance", streakHandler.HandleAdvanceWorkout).Methods("POST", "OPTIONS").Name("advance-workout-streak")
	r.HandleFunc("/streak/{category}/evaluate", streakHandler.HandleEvaluate).Methods("POST", "OPTIONS").Name("evaluate-streak")

	leaderboardHandler := leaderboard.NewHandler(s.ranker)
	r.HandleFunc("/leaderboard", leaderboardHandler.HandleRank).Methods("GET", "OPTIONS").Name("leaderboard")

	targetHandler := target.NewHandler(s.evaluator)
	r.HandleFunc("/target", targetHandler.HandleGetTarget).Methods("GET", "OPTIONS").Name("get-target")
	r.HandleFunc("/target", targetHandler.HandleSetTarget).Methods("PUT", "OPTIONS").Name("set-target")
	r.HandleFunc("/target/progress", targetHandler.HandleProgress).Methods("GET", "OPTIONS").Name("target-progress")

	friendsHandler := friends.NewHandler(s.friendsService)
	r.HandleFunc("/friends/list", friendsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-friends")
	r.HandleFunc("/friends/requests", friendsHandler.HandleListRequests).Methods("GET", "OPTIONS").Name("list-friend-requests")
	r.HandleFunc("/friends/request/{username}", friendsHandler.HandleSendRequest).Methods("POST", "OPTIONS").Name("send-friend-request")
	r.HandleFunc("/friends/accept/{uid}", friendsHandler.HandleAcceptRequest).Methods("POST", "OPTIONS").Name("accept-friend-request")
	r.HandleFunc("/friends/decline/{uid}", friendsHandler.HandleDeclineRequest).Methods("POST", "OPTIONS").Name("decline-friend-request")
	r.HandleFunc("/friends/{uid}", friendsHandler.HandleUnfriend).Methods("DELETE", "OPTIONS").Name("unfriend")

	assistHandler := textgen.NewHandler(s.textGenClient)
	r.HandleFunc("/assist/estimate", assistHandler.HandleEstimate).Methods("POST", "OPTIONS").Name("assist-estimate")
	r.HandleFunc("/assist/plan", assistHandler.HandlePlan).Methods("POST", "OPTIONS").Name("assist-plan")

	authHandler := auth.NewHandler(s.authService)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginSubrouter := r.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/register", friendsHandler.HandleRegister).
		Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.
		HandleFunc("/login", authHandler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", authHandler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the account endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(
		reqRateLimiter, "login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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
