package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/config"
	"github.com/beanhub/backend-go/internal/database"
	"github.com/beanhub/backend-go/internal/di"
	"github.com/beanhub/backend-go/internal/kafka"
	"github.com/beanhub/backend-go/internal/logger"
	"github.com/beanhub/backend-go/internal/vector"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks []func() error
}

var globalApp *App

// GetApp returns the global app instance
func GetApp() *App {
	return globalApp
}

// Init bootstraps configuration, logger, database connections and other shared
// infrastructure components required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := logger.InitLogger(); err != nil {
		return nil, err
	}
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}

	app := &App{}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		logger.Sync()
		return nil
	})

	if _, err := database.InitDB(); err != nil {
		return nil, err
	}
	app.cleanupTasks = append(app.cleanupTasks, database.CloseDB)

	if _, err := database.InitRedis(); err != nil {
		logger.Warn("Redis unavailable, gene record caching disabled", zap.Error(err))
	} else {
		app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
	}

	if config.AppConfig.Kafka.Enabled {
		if err := kafka.InitProducer(config.AppConfig.Kafka.Brokers, config.AppConfig.Kafka.Topic); err != nil {
			logger.Warn("Kafka unavailable, question analytics disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, func() error {
				return kafka.GetProducer().Close()
			})
		}
	}

	di.InitContainer()
	if err := di.RegisterProviders(); err != nil {
		return nil, err
	}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		var store *vector.Store
		if err := di.Invoke(func(s *vector.Store) { store = s }); err != nil {
			return nil
		}
		return store.Close()
	})

	globalApp = app
	logger.Info("Bootstrap completed",
		zap.String("env", config.AppConfig.Server.Env),
		zap.String("port", config.AppConfig.Server.Port))
	return app, nil
}

// Cleanup 逆序执行清理任务
func (a *App) Cleanup() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Warn("Cleanup task failed", zap.Error(err))
		}
	}
}
