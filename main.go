package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/nvbf/shuttle-club/pkg/auth"
	"github.com/nvbf/shuttle-club/pkg/config"
	"github.com/nvbf/shuttle-club/pkg/logging"
	"github.com/nvbf/shuttle-club/pkg/metrics"
	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/resend"
	"github.com/nvbf/shuttle-club/repos/store"
	"github.com/nvbf/shuttle-club/services/matches"
	"github.com/nvbf/shuttle-club/services/stats"
	"github.com/nvbf/shuttle-club/services/tournaments"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// run wires the server and blocks until it stops.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo store.Repository
	authMiddleware := auth.Disabled()
	if cfg.UseFirestore() {
		credentialsOption := option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON))

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, credentialsOption)
		if err != nil {
			return fmt.Errorf("failed to create Firestore client: %w", err)
		}
		defer firestoreClient.Close()
		repo = store.NewStore(firestoreClient)

		firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, credentialsOption)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase app: %w", err)
		}
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			return fmt.Errorf("failed to create Firebase auth client: %w", err)
		}
		if !cfg.AuthDisabled {
			authMiddleware = auth.AuthMiddleware(authClient)
		}
	} else {
		log.Warn().Msg("FIREBASE_PROJECT_ID not set, tournaments are kept in memory")
		repo = store.NewMemory()
	}
	if cfg.AuthDisabled {
		log.Warn().Msg("token verification is disabled")
	}

	generator := tournament.NewGenerator()
	resendService := resend.NewService(cfg.ResendKey, cfg.MailFrom, cfg.HostURL)

	tournamentsService := tournaments.NewTournamentsService(repo, generator, resendService)
	matchesService := matches.NewMatchesService(repo, generator, resendService)
	statsService := stats.NewStatsService(repo, cfg.Location, time.Now)

	corsConfig := cors.DefaultConfig()
	if len(cfg.CorsHosts) > 0 {
		corsConfig.AllowOrigins = cfg.CorsHosts
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "If-Match", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"ETag", "X-Request-ID"}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.ContextWithFallback = true
	router.Use(gin.Recovery(), logging.Middleware(), cors.New(corsConfig))
	metrics.Use(router)

	tournamentsRouter := router.Group("/tournaments/v1")
	tournamentsRouter.Use(authMiddleware)

	matchesRouter := router.Group("/matches/v1")
	matchesRouter.Use(authMiddleware)

	statsRouter := router.Group("/stats/v1")

	tournaments.NewHTTPHandler(tournaments.HTTPOptions{
		Service: tournamentsService,
		Router:  tournamentsRouter,
	})

	matches.NewHTTPHandler(matches.HTTPOptions{
		Service:  matchesService,
		Router:   matchesRouter,
		Location: cfg.Location,
	})

	stats.NewHTTPHandler(stats.HTTPOptions{
		Service: statsService,
		Router:  statsRouter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, server)
}

// serve runs the server until ctx is done and then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
