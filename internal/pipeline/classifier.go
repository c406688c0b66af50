package pipeline

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// isGeneticsQuestion 判断问题属于遗传学文献方向还是数据分析方向。
// 分类失败时按非遗传学处理，让数据路径先行兜底。
func (p *Pipeline) isGeneticsQuestion(ctx context.Context, client CompletionClient, question string) bool {
	result, err := client.Complete(ctx, CompletionRequest{
		Model: p.ai.ClassifierModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: RoleSystem, Content: classifierSystemPrompt},
			{Role: RoleUser, Content: question},
		},
		Temperature: greedyTemperature,
		MaxTokens:   10,
	})
	if err != nil {
		p.logger.Warn("Genetics classification failed", zap.Error(err))
		return false
	}
	return strings.ToLower(strings.TrimSpace(result.Content)) == "true"
}
