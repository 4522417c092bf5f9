package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ordforrad/api/internal/auth"
	"github.com/ordforrad/api/internal/cache"
	"github.com/ordforrad/api/internal/config"
	"github.com/ordforrad/api/internal/consolidate"
	"github.com/ordforrad/api/internal/database"
	"github.com/ordforrad/api/internal/enrich"
	"github.com/ordforrad/api/internal/handler"
	"github.com/ordforrad/api/internal/llm"
	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/ratelimit"
	"github.com/ordforrad/api/internal/scheduler"
	"github.com/ordforrad/api/internal/stats"
	"github.com/ordforrad/api/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional: without it dashboards are not cached and nothing is
	// rate limited.
	var (
		statsCache stats.Cache
		limiter    *ratelimit.Limiter
		throttle   enrich.Throttle
	)
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
	} else {
		defer redisCache.Close()
		statsCache = redisCache
		overrides := map[string]ratelimit.ActionConfig{}
		if cfg.EnrichRateLimit > 0 {
			overrides[ratelimit.ActionEnrich] = ratelimit.ActionConfig{Limit: cfg.EnrichRateLimit, Window: time.Minute}
		}
		limiter = ratelimit.NewLimiter(redisCache.Client(), overrides)
		throttle = limiter
	}

	words := store.NewWordStore(db)
	progress := store.NewProgressStore(db)
	quizzes := store.NewQuizStore(db)
	submissions := store.NewSubmissionStore(db)
	users := store.NewUserStore(db)

	provider := llm.NewProvider(llm.NewClient(cfg.OllamaURL, cfg.OllamaModel))
	runner := enrich.NewRunner(words, provider, throttle)
	runner.Observe = middleware.RecordEnrichmentCall
	manager := enrich.NewManager(runner, words, cfg.EnrichBatchSize)

	statsService := stats.NewService(words, progress, statsCache, cache.DashboardKey, cfg.Location())
	exportService := &consolidate.Service{
		Words:    []consolidate.WordSource{words},
		Progress: []consolidate.ProgressSource{progress},
		PageSize: store.DefaultPageSize,
	}

	googleConfig := auth.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, googleConfig, cfg.FrontendURL)
	wordHandler := handler.NewWordHandler(words, provider)
	progressHandler := handler.NewProgressHandler(progress, words, statsService)
	statsHandler := handler.NewStatsHandler(statsService)
	quizHandler := handler.NewQuizHandler(progress, words, quizzes)
	exportHandler := handler.NewExportHandler(exportService)
	submissionHandler := handler.NewSubmissionHandler(submissions)
	adminHandler := handler.NewAdminHandler(submissions, words)
	enrichmentHandler := handler.NewEnrichmentHandler(manager)

	var enrichScheduler *scheduler.EnrichmentScheduler
	if cfg.SchedulerEnabled {
		enrichScheduler = scheduler.NewEnrichmentScheduler(manager, scheduler.Config{
			Interval: cfg.SchedulerInterval,
			Limit:    cfg.EnrichBatchSize,
		})
		if err := enrichScheduler.Start(); err != nil {
			log.Printf("Warning: Failed to start scheduler: %v", err)
			enrichScheduler = nil
		} else {
			defer enrichScheduler.Stop()
		}
	}

	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-RateLimit-Remaining, Retry-After")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/google", authHandler.GoogleAuth)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
		authGroup.POST("/refresh", authHandler.RefreshToken)
		authGroup.POST("/logout", authHandler.Logout)
	}

	public := r.Group("/api", middleware.OptionalAuthMiddleware(cfg.JWTSecret, cfg.AdminEmails))
	{
		public.GET("/words", wordHandler.List)
		public.GET("/words/:id", wordHandler.Get)
	}

	api := r.Group("/api", middleware.AuthMiddleware(cfg.JWTSecret, cfg.AdminEmails))
	{
		api.GET("/me", authHandler.Me)
		api.DELETE("/me", authHandler.DeleteMe)

		api.GET("/progress", progressHandler.List)
		api.PUT("/progress/:wordId", progressHandler.Upsert)
		api.GET("/stats/dashboard", statsHandler.Dashboard)

		api.POST("/quiz", middleware.RateLimit(limiter, ratelimit.ActionQuiz), quizHandler.Generate)
		api.POST("/quiz/:id/complete", quizHandler.Complete)
		api.GET("/quiz/history", quizHandler.History)

		api.GET("/export", middleware.RateLimit(limiter, ratelimit.ActionExport), exportHandler.Export)

		api.POST("/submissions", middleware.RateLimit(limiter, ratelimit.ActionSubmission), submissionHandler.Create)
		api.GET("/submissions", submissionHandler.ListMine)
	}

	admin := api.Group("/admin", middleware.AdminMiddleware())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/submissions", adminHandler.ListSubmissions)
		admin.PATCH("/submissions/:id", adminHandler.ReviewSubmission)

		admin.POST("/words", wordHandler.Create)
		admin.POST("/words/:id/enrich", middleware.RateLimit(limiter, ratelimit.ActionEnrich), wordHandler.Enrich)

		admin.POST("/enrichment", enrichmentHandler.Start)
		admin.GET("/enrichment", enrichmentHandler.List)
		admin.GET("/enrichment/:jobId", enrichmentHandler.Status)
		admin.POST("/enrichment/stop", enrichmentHandler.Stop)

		admin.GET("/scheduler", func(c *gin.Context) {
			if enrichScheduler == nil {
				c.JSON(http.StatusOK, gin.H{"enabled": false, "message": "Scheduler is disabled"})
				return
			}
			c.JSON(http.StatusOK, enrichScheduler.GetStatus())
		})
	}

	log.Printf("API server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
