package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keynotes-cms/internal/articles"
	"keynotes-cms/internal/assets"
	"keynotes-cms/internal/auth"
	"keynotes-cms/internal/config"
	"keynotes-cms/internal/constants"
	"keynotes-cms/internal/database"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"
	"keynotes-cms/internal/routes"

	"github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func main() {
	c := config.InitConfig()

	logger := logging.InitLogging(c)

	controllerRegistry, err := injectDependencies(c, logger)
	if err != nil {
		logger.LogErrorf(nil, "injecting depencies failed: %s", err.Error())
		return
	}

	ginLogger := logging.InitGinLogger(c)

	gin.DefaultWriter = io.MultiWriter(&zapio.Writer{Log: ginLogger, Level: config.Config().Logging.Level})
	if config.Config().Logging.Level == zap.DebugLevel {
		logger.LogDebug(nil, "Enabling Gin debug (writes to access log)")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		ginzap.GinzapWithConfig(ginLogger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        false,
			SkipPaths:  []string{"/status"},
		}),
		ginzap.RecoveryWithZap(ginLogger, true),
	)

	// Routes
	routes.InitRouter(r, controllerRegistry)

	SetupCloseHandler(logger)

	if len(config.Config().ListeningAddress) == 0 && len(config.Config().ListeningPort) == 0 {
		panic("No listening address/port provided")
	}

	logger.LogInfof(nil, "API running. Listening on %s:%s", config.Address(), config.Port())

	err = r.Run(config.Address() + ":" + config.Port())
	if err != nil {
		logger.LogErrorf(nil, "Listening on %s:%s failed: %s", config.Address(), config.Port(), err.Error())
		return
	}
}

func injectDependencies(config *config.Configuration, logger logging.Logger) (map[int]any, error) {
	db, err := database.InitDatabase(config, logger)
	if err != nil {
		logger.LogError(nil, "error initializing database: ", err)
		return nil, err
	}

	env := environment.Environment(
		&database.GormRepository{DB: db},
		logger,
	)

	// the Collator is used for lexicographic order with locale-aware sorting (like filesystems do),
	// instead of Go's default pure Unicode code point ordering
	collator := collate.New(language.English)

	assetStore, err := assets.InitCloudinary(config, env, collator)
	if err != nil {
		logger.LogErrorf(logging.GetLogTypeInitialization(), "Error initializing Cloudinary asset store: %v", err)
		return nil, err
	}

	assetsController := &assets.Controller{
		Env:        env,
		Uploader:   assetStore,
		Gallery:    assetStore,
		MaxResults: config.Cloudinary.MaxResults,
	}

	articlesController := &articles.Controller{
		Env:            env,
		ArticleService: articles.ArticleService{Env: env},
	}

	authController := &auth.Controller{
		Env:         env,
		AuthService: &auth.AuthService{Env: env},
	}

	controllerRegistry := make(map[int]any)
	controllerRegistry[constants.Articles] = articlesController
	controllerRegistry[constants.Assets] = assetsController
	controllerRegistry[constants.Auth] = authController

	return controllerRegistry, nil
}

func SetupCloseHandler(logger logging.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-c
		fmt.Println()
		logger.LogWarnf(nil, "Cleaning up...")
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}()
}
