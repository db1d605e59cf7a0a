package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"cardvault/internal/config"
	cronrunner "cardvault/internal/cron"
	"cardvault/internal/db"
	"cardvault/internal/handler"
	"cardvault/internal/logger"
	"cardvault/internal/models"
	"cardvault/internal/provider"
	gormrepository "cardvault/internal/repository/gorm"
	"cardvault/internal/service"

	_ "cardvault/docs"
)

func main() {
	// Provider API keys come from the environment; a local .env is the usual
	// way to supply them in dev.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CV_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("CV_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	registry := provider.NewRegistry(cfg.Providers, store, logger)
	populationService := &service.PopulationService{
		Registry: registry,
		Store:    store,
		Logger:   logger,
	}
	cacheService := &service.CacheService{Store: store, Logger: logger}
	printStatusService := &service.PrintStatusService{
		Store:            store,
		Logger:           logger,
		OutOfPrintMonths: cfg.PrintStatus.OutOfPrintMonths,
		VintageMonths:    cfg.PrintStatus.VintageMonths,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	populationHandler := &handler.PopulationHandler{
		Service: populationService,
		Logger:  logger,
	}
	populationHandler.Register(engine)
	cacheHandler := &handler.CacheHandler{
		Service:     cacheService,
		PrintStatus: printStatusService,
	}
	cacheHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		registerCronJobs(cronRunner, cfg, logger, populationService, printStatusService)
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func registerCronJobs(runner *cronrunner.Runner, cfg config.Config, logger *zap.Logger,
	population *service.PopulationService, printStatus *service.PrintStatusService) {

	_, err := runner.Add(cfg.Cron.PrintStatusRefresh, func(ctx context.Context) {
		for _, game := range models.AllGames() {
			result, err := printStatus.Refresh(ctx, game)
			if err != nil {
				logger.Warn("cron print status refresh failed",
					zap.String("game", game.String()),
					zap.Error(err),
				)
				continue
			}
			if result.Updated > 0 {
				logger.Info("cron print status refresh ok",
					zap.String("game", game.String()),
					zap.Int("examined", result.Examined),
					zap.Int("updated", result.Updated),
				)
			}
		}
	})
	if err != nil {
		logger.Warn("cron register print status refresh failed", zap.Error(err))
	}

	games := parseGames(cfg.Populate.Games, logger)
	if len(games) == 0 {
		return
	}
	_, err = runner.Add(cfg.Cron.Populate, func(ctx context.Context) {
		for _, game := range games {
			result, err := population.PopulateGame(ctx, game, cfg.Populate.MaxSets, cfg.Populate.MaxAgeMonths)
			if err != nil {
				logger.Warn("cron populate failed", zap.String("game", game.String()), zap.Error(err))
				continue
			}
			// A failed tick needs no special handling: the next run resumes
			// from whatever the cache holds.
			logger.Info("cron populate finished",
				zap.String("game", game.String()),
				zap.Bool("success", result.Success),
				zap.Int("sets_processed", result.SetsProcessed),
				zap.Int("cards_processed", result.CardsProcessed),
				zap.Int("errors", len(result.Errors)),
			)
		}
	})
	if err != nil {
		logger.Warn("cron register populate failed", zap.Error(err))
	}
}

func parseGames(raw []string, logger *zap.Logger) []models.GameSlug {
	var games []models.GameSlug
	for _, entry := range raw {
		game, err := models.ParseGameSlug(entry)
		if err != nil {
			logger.Warn("ignoring unknown game in populate config", zap.String("game", entry))
			continue
		}
		games = append(games, game)
	}
	return games
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
