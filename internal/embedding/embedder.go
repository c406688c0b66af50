package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Config 嵌入服务端点配置。
// BGE与PubMedBERT各部署为一个OpenAI兼容的嵌入端点，模型名由端点解释。
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIEmbedder 走OpenAI兼容接口的文本嵌入器
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder 创建嵌入器，BaseURL为空时使用官方端点
func NewOpenAIEmbedder(cfg Config) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response empty")
	}
	return resp.Data[0].Embedding, nil
}

func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}

// NoopEmbedder 占位嵌入器，端点未配置时使用
type NoopEmbedder struct{}

func (NoopEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedder not configured")
}

func (NoopEmbedder) Ready() bool { return false }
