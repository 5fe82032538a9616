package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/config"
	"github.com/tawjihai/tawjih-be/handler"
	"github.com/tawjihai/tawjih-be/logger"
	"github.com/tawjihai/tawjih-be/service"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the guidance assistant server",
	Long:  `Loads the knowledge corpus and starts the HTTP and websocket chat server.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
		defer zlog.Sync()

		// Initialize services
		knowledgeService, err := service.NewKnowledgeService(cfg.KnowledgeSources, zlog)
		if err != nil {
			// An empty corpus is fatal: the assistant must not serve
			// traffic without reference material.
			zlog.Fatal("failed to load knowledge corpus", zap.Error(err))
		}

		aiService, err := buildAIService(cfg)
		if err != nil {
			zlog.Fatal("failed to initialize AI service", zap.Error(err))
		}

		memoryService := service.NewMemoryService(zlog)
		classifierService := service.NewClassifierService(aiService, zlog)
		searchService := service.NewSearchService(cfg.SearchAPIKey, cfg.SearchEngineID)
		webService := service.NewWebService(searchService, aiService, cfg.FetchTimeout, zlog)
		assistantService := service.NewAssistantService(
			knowledgeService, memoryService, classifierService, webService, aiService, zlog)
		wsService := service.NewWebSocketService(assistantService, zlog)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(assistantService)
		memoryHandler := handler.NewMemoryHandler(assistantService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.GET("/memory/status", memoryHandler.HandleStatus)
			apiV1.POST("/memory/clear", memoryHandler.HandleClear)
		}

		router.GET("/ws", gin.WrapF(wsService.HandleChat))
		router.GET("/health", func(c *gin.Context) {
			c.String(200, "OK")
		})

		zlog.Info("starting server",
			zap.String("port", cfg.Port),
			zap.Strings("languages", knowledgeService.Languages()))
		if err := router.Run(":" + cfg.Port); err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	},
}

func buildAIService(cfg *config.Config) (service.AIService, error) {
	if cfg.AIProvider == "gemini" {
		return service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model)
	}
	return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model), nil
}

func init() {
	rootCmd.AddCommand(startCmd)
}
