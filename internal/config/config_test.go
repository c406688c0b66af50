package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, LoadConfig())
	cfg := AppConfig

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "localhost:19530", cfg.Milvus.Address)
	assert.Equal(t, "default", cfg.Milvus.Database)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "question-events", cfg.Kafka.Topic)

	assert.Equal(t, "bge_literature", cfg.Retrieval.BGEIndexName)
	assert.Equal(t, "pubmedbert_literature", cfg.Retrieval.PubIndexName)
	assert.Equal(t, 0.5, cfg.Retrieval.Alpha)
	assert.Equal(t, 5, cfg.Retrieval.TopK)

	assert.Equal(t, "gpt-4o", cfg.AI.ChatModel)
	assert.Equal(t, "bge-large-en-v1.5", cfg.AI.BGEEmbeddingModel)
	assert.Equal(t, "pubmedbert-base-embeddings", cfg.AI.PubMedEmbeddingModel)
	assert.Equal(t, 3600, cfg.Redis.TTL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgresql://app:secret@db:5432/beans")
	t.Setenv("KAFKA_BROKERS", "kafka-0:9092")
	t.Setenv("MILVUS_ADDRESS", "milvus:19530")

	require.NoError(t, LoadConfig())
	cfg := AppConfig

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgresql://app:secret@db:5432/beans", cfg.Database.URL)
	assert.Equal(t, "milvus:19530", cfg.Milvus.Address)

	// 显式指定broker时自动启用事件发布
	assert.Equal(t, []string{"kafka-0:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
}

func TestValidateConfig(t *testing.T) {
	valid := &Config{Retrieval: RetrievalConfig{
		BGEIndexName: "bge_literature",
		PubIndexName: "pubmedbert_literature",
		Alpha:        0.7,
		TopK:         5,
	}}
	assert.NoError(t, validateConfig(valid))

	alpha := *valid
	alpha.Retrieval.Alpha = 1.5
	assert.Error(t, validateConfig(&alpha))

	topK := *valid
	topK.Retrieval.TopK = 0
	assert.Error(t, validateConfig(&topK))

	index := *valid
	index.Retrieval.PubIndexName = ""
	assert.Error(t, validateConfig(&index))
}
