package main

import (
	_ "embed"
	"fmt"
	"log"
	"media-transform-api/handlers"
	"media-transform-api/mediaservices"
	"media-transform-api/testui"
	"media-transform-api/utils"
	"net/http"
	"time"

	valkeystore "media-transform-api/valkey"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed web/index.html
var indexHTML string

func main() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Initialize the event bus (optional, provisioning events only)
	valkeystore.InitValkey(logger)

	// Initialize the media services management client
	if err := mediaservices.InitMediaServices(logger); err != nil {
		sugar.Fatalw("failed to init media services client",
			"error", err)
	}

	// Setup HTTP server
	r := gin.New()
	sugar.Info("Creating router")

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Routes
	// Transform provisioning routes
	r.POST("/transforms", handlers.HandleCreateOrGetTransform(logger, mediaservices.Default))
	r.GET("/transforms", handlers.HandleListTransforms(logger, mediaservices.Default))
	r.GET("/transforms/:transform", handlers.HandleGetTransform(logger, mediaservices.Default))

	// Service introspection
	r.GET("/status", handlers.HandleStatus(mediaservices.Default))
	r.GET("/metrics", handlers.HandleMetrics())

	// Health check
	r.GET("/healthcheck", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	testui.RegisterRoutes(r, "/", indexHTML)

	sugar.Infow("Running on port",
		"port", utils.MustGetEnv("APP_PORT"))
	port := utils.MustGetEnv("APP_PORT")
	r.Run(fmt.Sprintf(":%s", port))
}
