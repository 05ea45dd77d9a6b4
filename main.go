package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	config "github.com/CodeAndHammer/tagvorto/internal/config"
	daily "github.com/CodeAndHammer/tagvorto/internal/daily"
	game "github.com/CodeAndHammer/tagvorto/internal/game"
	handlers "github.com/CodeAndHammer/tagvorto/internal/handlers"
	session "github.com/CodeAndHammer/tagvorto/internal/session"
	util "github.com/CodeAndHammer/tagvorto/internal/util"
	words "github.com/CodeAndHammer/tagvorto/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	isProduction := config.IsProduction()
	log.Info().
		Str("env", map[bool]string{true: "production", false: "development"}[isProduction]).
		Msg("starting tagvorto")

	catalog, err := words.Load(cfg.WordsFile, cfg.AnswersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}

	selector := daily.NewSelector(cfg.SecretKey, cfg.DayOffset)
	if _, err := selector.AnswerFor(selector.Today(time.Now()), catalog.Answers()); err != nil {
		log.Fatal().Err(err).Msg("failed to select daily answer")
	}

	store := session.NewStore(cfg.SessionTTL)
	limiter := newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimiterTTL)

	api := &handlers.API{
		Service:      game.NewService(catalog, selector),
		Sessions:     store,
		Catalog:      catalog,
		CookieMaxAge: cfg.CookieMaxAge,
		Secure:       isProduction,
		StartTime:    time.Now(),
		LimiterCount: limiter.len,
	}

	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"})))
	router.Use(func(c *gin.Context) {
		applyCacheHeaders(c, isProduction, cfg.StaticCacheAge)
	})

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	if util.DirExists("static") {
		router.Static("/static", "./static")
		router.GET("/", api.Home)
	} else {
		log.Warn().Msg("static directory missing, serving API only")
	}

	router.GET("/game-state", api.GameState)
	router.POST("/guess", limiter.middleware(), api.Guess)
	router.GET("/healthz", api.Healthz)

	store.StartCleanup(10 * time.Minute)
	limiter.startCleanup(30 * time.Minute)

	startServer(router, cfg.Port)
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		log.Info().Msg("shutdown signal received, shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", port).Msg("server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed to start")
	}
	<-idleConnsClosed
	log.Info().Msg("server shutdown complete")
}

func applyCacheHeaders(c *gin.Context, production bool, staticCacheAge time.Duration) {
	if production && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(staticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}
