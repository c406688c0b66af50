package pipeline

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/beanhub/backend-go/internal/genes"
)

// geneCompleter 把补全客户端适配成基因抽取的兜底接口
type geneCompleter struct {
	client CompletionClient
	model  string
}

func (c geneCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	result, err := c.client.Complete(ctx, CompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
		Temperature: greedyTemperature,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// NewGeneCompleterFactory 为基因抽取构建兜底补全工厂
func NewGeneCompleterFactory(factory ClientFactory, model string) genes.CompleterFactory {
	return func(apiKey string) genes.Completer {
		return geneCompleter{client: factory(apiKey), model: model}
	}
}
