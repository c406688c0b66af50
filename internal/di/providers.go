package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beanhub/backend-go/internal/beandata"
	"github.com/beanhub/backend-go/internal/config"
	"github.com/beanhub/backend-go/internal/database"
	"github.com/beanhub/backend-go/internal/embedding"
	"github.com/beanhub/backend-go/internal/genes"
	"github.com/beanhub/backend-go/internal/logger"
	"github.com/beanhub/backend-go/internal/pipeline"
	"github.com/beanhub/backend-go/internal/vector"
)

// RegisterProviders 注册进程级资源的构造器。
// 必须在配置、数据库与日志初始化之后调用。
func RegisterProviders() error {
	providers := []interface{}{
		config.GetAppConfig,
		func() *zap.Logger { return logger.GetLogger() },
		func() *gorm.DB { return database.DB },
		func() *redis.Client { return database.RedisClient },
		newVectorStore,
		newPipeline,
	}
	for _, provider := range providers {
		if err := Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

func newVectorStore(cfg *config.Config, log *zap.Logger) (*vector.Store, error) {
	return vector.NewStore(vector.Options{
		Address:  cfg.Milvus.Address,
		Username: cfg.Milvus.Username,
		Password: cfg.Milvus.Password,
		Database: cfg.Milvus.Database,
		UseTLS:   cfg.Milvus.UseTLS,
	}, log)
}

// newEmbedder 端点未配置时退化为占位嵌入器，检索路径会得到明确错误
func newEmbedder(baseURL, model string) pipeline.Embedder {
	if baseURL == "" {
		return embedding.NoopEmbedder{}
	}
	return embedding.NewOpenAIEmbedder(embedding.Config{BaseURL: baseURL, Model: model})
}

func newPipeline(cfg *config.Config, db *gorm.DB, cache *redis.Client, store *vector.Store, log *zap.Logger) *pipeline.Pipeline {
	bgeEmbedder := newEmbedder(cfg.AI.BGEEmbeddingURL, cfg.AI.BGEEmbeddingModel)
	pubEmbedder := newEmbedder(cfg.AI.PubMedEmbeddingURL, cfg.AI.PubMedEmbeddingModel)

	factory := pipeline.ClientFactory(pipeline.NewOpenAIClient)
	geneStore := genes.NewGormStore(db)
	resolver := genes.NewResolver(geneStore, cache, time.Duration(cfg.Redis.TTL)*time.Second, log)
	extractor := genes.NewExtractor(pipeline.NewGeneCompleterFactory(factory, cfg.AI.ClassifierModel), log)

	return pipeline.New(pipeline.Options{
		Retrieval:   cfg.Retrieval,
		AI:          cfg.AI,
		BGEEmbedder: bgeEmbedder,
		PubEmbedder: pubEmbedder,
		Index:       store,
		Factory:     factory,
		Extractor:   extractor,
		Resolver:    resolver,
		BeanData:    beandata.NewService(db, log),
		Logger:      log,
	})
}
