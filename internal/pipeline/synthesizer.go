package pipeline

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// synthesisTemperature 文献综合回答的采样温度
const synthesisTemperature = 0.2

// buildMessages 组装文献问答的消息序列：人设、历史、问题、最后补充检索上下文。
// 问题中带有数据分析成功标记时切换为补充文献的人设。
func buildMessages(question, context string, history []ChatMessage) []openai.ChatCompletionMessage {
	system := geneticsSystemPrompt
	if strings.Contains(question, beanDataFollowUpMarker) {
		system = followUpSystemPrompt
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages, openai.ChatCompletionMessage{Role: RoleSystem, Content: system})
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages,
		openai.ChatCompletionMessage{Role: RoleUser, Content: question},
		openai.ChatCompletionMessage{Role: RoleUser, Content: fmt.Sprintf("Context:\n%s", context)},
	)
	return messages
}

// synthesize 批量生成文献综合回答
func (p *Pipeline) synthesize(ctx context.Context, client CompletionClient, question, ragContext string, history []ChatMessage) (string, error) {
	result, err := client.Complete(ctx, CompletionRequest{
		Model:       p.ai.ChatModel,
		Messages:    buildMessages(question, ragContext, history),
		Temperature: synthesisTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Content), nil
}

// synthesizeStream 流式生成文献综合回答，每个片段交给emit发布。
// 中途失败不终止流，改为发布内联错误片段；emit返回false表示调用方已取消。
// 返回已发布片段按序拼接后的完整文本。
func (p *Pipeline) synthesizeStream(ctx context.Context, client CompletionClient, question, ragContext string, history []ChatMessage, emit func(fragment string) bool) (string, error) {
	chunks, err := client.CompleteStream(ctx, CompletionRequest{
		Model:       p.ai.ChatModel,
		Messages:    buildMessages(question, ragContext, history),
		Temperature: synthesisTemperature,
	})
	if err != nil {
		fragment := fmt.Sprintf("\n\n*Error generating response: %v*\n\n", err)
		emit(fragment)
		return fragment, nil
	}

	var full strings.Builder
	for chunk := range chunks {
		fragment := chunk.Content
		if chunk.Err != nil {
			fragment = fmt.Sprintf("\n\n*Error generating response: %v*\n\n", chunk.Err)
		}
		if fragment == "" {
			continue
		}
		if !emit(fragment) {
			return full.String(), ctx.Err()
		}
		full.WriteString(fragment)
	}
	return full.String(), nil
}
